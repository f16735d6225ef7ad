package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-review/config"
	"roadmap-review/logger"
)

func TestContentPathIsVersionStamped(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "roadmaps/r1/v3-1700000000123.md", ContentPath("r1", 3, at))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bucket/roadmaps/a.md",
		objectURL("https://storage.googleapis.com/", "bucket", "/roadmaps/a.md"))
	assert.Equal(t, "memory://content/roadmaps/a.md", objectURL("memory://content", "", "roadmaps/a.md"))
}

func TestS3PublicBase(t *testing.T) {
	assert.Equal(t, "https://minio.local:9000", s3PublicBase(config.ContentStoreConfig{Endpoint: "minio.local:9000", UseSSL: true}))
	assert.Equal(t, "http://minio.local:9000", s3PublicBase(config.ContentStoreConfig{Endpoint: "minio.local:9000/"}))
	assert.Equal(t, "https://cdn.example.com", s3PublicBase(config.ContentStoreConfig{Endpoint: "minio.local:9000", PublicBaseURL: "https://cdn.example.com"}))
}

func TestPublishWithMemoryStore(t *testing.T) {
	store := NewMemoryStore("https://cdn.test")
	ctx := context.Background()

	url, err := Publish(ctx, store, "roadmaps/r1/v1-1.md", "# body")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/roadmaps/r1/v1-1.md", url)
	assert.Equal(t, url, store.PublicURL("roadmaps/r1/v1-1.md"))

	content, public, ok := store.Get("roadmaps/r1/v1-1.md")
	require.True(t, ok)
	assert.True(t, public)
	assert.Equal(t, "# body", content)
}

func TestPublishPropagatesSaveFailure(t *testing.T) {
	store := NewMemoryStore("")
	store.FailSave = errors.New("bucket unavailable")

	_, err := Publish(context.Background(), store, "roadmaps/r1/v1-1.md", "# body")
	assert.ErrorContains(t, err, "bucket unavailable")
	assert.Equal(t, 0, store.Len())
}

func TestMakePublicRequiresObject(t *testing.T) {
	store := NewMemoryStore("")
	assert.Error(t, store.MakePublic(context.Background(), "missing.md"))
}

func TestNewSelectsMemoryBackend(t *testing.T) {
	store, err := New(context.Background(), config.ContentStoreConfig{Backend: "memory"}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = New(context.Background(), config.ContentStoreConfig{Backend: "ftp"}, logger.NewNop())
	assert.Error(t, err)
}
