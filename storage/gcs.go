package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"roadmap-review/config"
	"roadmap-review/logger"
)

const defaultGCSPublicBase = "https://storage.googleapis.com"

// GCSStore writes bodies to a Google Cloud Storage (or Firebase Storage)
// bucket.
type GCSStore struct {
	log        *logger.Logger
	client     *storage.Client
	bucket     string
	publicBase string
}

func NewGCSStore(ctx context.Context, cfg config.ContentStoreConfig, log *logger.Logger) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(storage.ScopeFullControl))

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}

	publicBase := strings.TrimSpace(cfg.PublicBaseURL)
	if publicBase == "" {
		publicBase = defaultGCSPublicBase
	}

	storeLog := log.With("service", "GCSStore")
	storeLog.Info("Content store initialized", "backend", "gcs", "bucket", cfg.Bucket, "public_base_url", publicBase)

	return &GCSStore{
		log:        storeLog,
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}, nil
}

func (s *GCSStore) Save(ctx context.Context, path, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = markdownContentType
	w.CacheControl = "public, max-age=300"
	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: close writer for %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

func (s *GCSStore) MakePublic(ctx context.Context, path string) error {
	acl := s.client.Bucket(s.bucket).Object(path).ACL()
	if err := acl.Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return fmt.Errorf("gcs: make %s public: %w", path, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(path string) string {
	return objectURL(s.publicBase, s.bucket, path)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
