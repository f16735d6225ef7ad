package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"roadmap_id", "r1", "jwt_token", "abc", "webhook_url", "https://x", "dangling"})

	assert.Equal(t, []interface{}{
		"roadmap_id", "r1",
		"jwt_token", "[REDACTED]",
		"webhook_url", "[REDACTED]",
		"dangling",
	}, out)
}

func TestNewNopDoesNotPanic(t *testing.T) {
	log := NewNop().With("service", "test")
	log.Info("hello", "k", "v")
	log.Warn("careful")
}
