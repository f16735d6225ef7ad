package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roadmap-review/cache"
	"roadmap-review/config"
	"roadmap-review/handlers"
	"roadmap-review/helper"
	"roadmap-review/logger"
	"roadmap-review/notify"
	"roadmap-review/repositories"
	"roadmap-review/services"
	"roadmap-review/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "migrate the schema before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if migrate {
		if err := repositories.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	content, err := storage.New(ctx, cfg.ContentStore, log)
	if err != nil {
		return err
	}
	if closer, ok := content.(io.Closer); ok {
		defer closer.Close()
	}

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}

	roadmapCache, closeCache, err := newCache(cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	h, err := helper.NewHTTPHelper(log)
	if err != nil {
		return err
	}

	store := repositories.NewStore(db)
	authService := services.NewAuthService(store.Users(), cfg.JWT, log)
	roadmapService := services.NewRoadmapService(store, content, notifier, roadmapCache, log)
	catalogService := services.NewCatalogService(store.Roadmaps())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService:    authService,
		RoadmapService: roadmapService,
		CatalogService: catalogService,
		Helper:         h,
		Log:            log,
		CORSOrigin:     cfg.CORSOrigin,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "content_store", cfg.ContentStore.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

func newNotifier(cfg *config.Config, log *logger.Logger) (notify.Notifier, error) {
	if cfg.Discord.ModeratorWebhookURL == "" && cfg.Discord.StatusWebhookURL == "" {
		log.Warn("no discord webhooks configured, notifications disabled")
		return notify.Noop{}, nil
	}
	d, err := notify.NewDiscord(notify.DiscordOpts{
		ModeratorWebhookURL: cfg.Discord.ModeratorWebhookURL,
		StatusWebhookURL:    cfg.Discord.StatusWebhookURL,
		SiteURL:             cfg.SiteURL,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func newCache(cfg *config.Config, log *logger.Logger) (cache.RoadmapCache, func(), error) {
	if cfg.Redis.URL == "" {
		log.Info("REDIS_URL not set, public roadmap cache disabled")
		return cache.Noop{}, func() {}, nil
	}
	c, err := cache.NewRedisRoadmapCache(cfg.Redis.URL, cfg.Redis.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return c, func() { _ = c.Close() }, nil
}
