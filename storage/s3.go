package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"roadmap-review/config"
	"roadmap-review/logger"
)

// S3Store writes bodies to any S3-compatible endpoint (MinIO, R2, AWS).
type S3Store struct {
	log        *logger.Logger
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewS3Store(cfg config.ContentStoreConfig, log *logger.Logger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	storeLog := log.With("service", "S3Store")
	publicBase := s3PublicBase(cfg)
	storeLog.Info("Content store initialized", "backend", "s3", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket, "public_base_url", publicBase)

	return &S3Store{
		log:        storeLog,
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}, nil
}

func s3PublicBase(cfg config.ContentStoreConfig) string {
	if base := strings.TrimSpace(cfg.PublicBaseURL); base != "" {
		return base
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + strings.TrimRight(cfg.Endpoint, "/")
}

func (s *S3Store) Save(ctx context.Context, path, content string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, strings.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType:  markdownContentType,
		CacheControl: "public, max-age=300",
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

// MakePublic confirms the object exists. Objects are already written with a
// public-read ACL, and buckets without ACL support rely on a bucket policy.
func (s *S3Store) MakePublic(ctx context.Context, path string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("s3: stat %s: %w", path, err)
	}
	return nil
}

func (s *S3Store) PublicURL(path string) string {
	if strings.TrimSpace(s.publicBase) == "" {
		return path
	}
	return objectURL(s.publicBase, s.bucket, path)
}
