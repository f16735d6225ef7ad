// Package storage holds roadmap markdown bodies in an object store.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roadmap-review/config"
	"roadmap-review/logger"
)

const markdownContentType = "text/markdown; charset=utf-8"

// ContentStore is blob storage keyed by path. Once a path is saved and made
// public its URL is stable and fetchable by readers.
type ContentStore interface {
	Save(ctx context.Context, path, content string) (string, error)
	MakePublic(ctx context.Context, path string) error
	PublicURL(path string) string
}

// ContentPath builds the version-stamped key for a roadmap body. The
// timestamp keeps a reworked draft from reusing a URL a CDN may have cached.
func ContentPath(roadmapID string, version int, at time.Time) string {
	return fmt.Sprintf("roadmaps/%s/v%d-%d.md", roadmapID, version, at.UnixMilli())
}

// Publish saves content and makes it public, returning the public URL.
func Publish(ctx context.Context, store ContentStore, path, content string) (string, error) {
	url, err := store.Save(ctx, path, content)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if err := store.MakePublic(ctx, path); err != nil {
		return "", fmt.Errorf("make %s public: %w", path, err)
	}
	return url, nil
}

// New builds the content store selected by cfg.Backend.
func New(ctx context.Context, cfg config.ContentStoreConfig, log *logger.Logger) (ContentStore, error) {
	switch cfg.Backend {
	case "gcs":
		return NewGCSStore(ctx, cfg, log)
	case "s3":
		return NewS3Store(cfg, log)
	case "memory", "":
		return NewMemoryStore(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

func objectURL(base, bucket, path string) string {
	base = strings.TrimRight(base, "/")
	path = strings.TrimLeft(path, "/")
	if bucket == "" {
		return base + "/" + path
	}
	return base + "/" + bucket + "/" + path
}
