// Package cmd holds the roadmapctl command tree.
package cmd

import (
	"fmt"
	"os"

	"roadmap-review/config"
	"roadmap-review/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roadmapctl",
		Short:         "Roadmap review service",
		Long:          "Serves the roadmap review API and runs its maintenance tasks.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newAdminCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roadmapctl %s (commit: %s)\n", Version, Commit)
		},
	}
}

func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// bootstrap loads .env and configuration and builds the logger.
func bootstrap() (*config.Config, *logger.Logger, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := config.InitDB(cfg.Database, cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
