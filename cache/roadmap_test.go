package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"roadmap-review/models"
)

func setupTestCache(t *testing.T, ttl time.Duration) (*RedisRoadmapCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c, err := NewRedisRoadmapCache("redis://"+s.Addr(), ttl)
	if err != nil {
		t.Fatalf("failed to create redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, s
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	feedback := "internal note"
	roadmap := &models.Roadmap{
		ID: "r1", CreatorID: "u1", Status: models.RoadmapStatusApproved, Version: 2,
		ContentURL: "https://cdn/v2.md", Title: "Go", Domain: "backend", EstimatedHours: 12,
		Feedback: &feedback, Revision: 3,
	}
	if err := c.Set(ctx, roadmap); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.Version != 2 || got.ContentURL != "https://cdn/v2.md" || got.EstimatedHours != 12 {
		t.Errorf("got = %+v", got)
	}
}

func TestStoredViewHasNoReviewNotes(t *testing.T) {
	c, s := setupTestCache(t, time.Minute)

	feedback := "internal note"
	n := 3
	roadmap := &models.Roadmap{ID: "r1", Feedback: &feedback, DraftVersionNumber: &n, HasPendingDraft: true}
	if err := c.Set(context.Background(), roadmap); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data := s.HGet(publicRoadmapPrefix+"r1", "data")
	for _, leaked := range []string{"internal note", "feedback", "draftVersionNumber", "hasPendingDraft"} {
		if strings.Contains(data, leaked) {
			t.Errorf("cached view contains %q: %s", leaked, data)
		}
	}
}

func TestGetMiss(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)

	got, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss, got %+v", got)
	}
}

func TestInvalidate(t *testing.T) {
	c, s := setupTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, &models.Roadmap{ID: "r1", Revision: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.HGet(publicRoadmapPrefix+"r1", "data") == "" {
		t.Fatal("expected cached view")
	}
	if err := c.Invalidate(ctx, "r1", 2); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	got, err := c.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss after invalidate, got %+v", got)
	}
}

func TestOlderRevisionIsNotCachedAfterInvalidate(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Invalidate(ctx, "r1", 5); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.Set(ctx, &models.Roadmap{ID: "r1", Version: 1, Revision: 4}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := c.Get(ctx, "r1"); got != nil {
		t.Fatalf("stale revision was cached: %+v", got)
	}

	if err := c.Set(ctx, &models.Roadmap{ID: "r1", Version: 2, Revision: 5}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Version != 2 {
		t.Errorf("got = %+v, want version 2", got)
	}
}

func TestInvalidateDoesNotRewindNewerEntry(t *testing.T) {
	c, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, &models.Roadmap{ID: "r1", Version: 3, Revision: 7}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(ctx, "r1", 6); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if got, _ := c.Get(ctx, "r1"); got == nil || got.Version != 3 {
		t.Errorf("got = %+v, want the revision 7 view", got)
	}
}

func TestEntriesExpire(t *testing.T) {
	c, s := setupTestCache(t, time.Second)
	ctx := context.Background()

	if err := c.Set(ctx, &models.Roadmap{ID: "r1"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected entry to expire")
	}
}
