// Package notify delivers moderator and creator alerts about roadmap review.
package notify

import (
	"context"

	"roadmap-review/models"
)

// Submission announces a roadmap, or a revision of one, awaiting review.
type Submission struct {
	RoadmapID   string
	Title       string
	CreatorName string
	IsRevision  bool
	Version     int
}

// StatusChange tells a creator what a moderator decided.
type StatusChange struct {
	RoadmapID      string
	Title          string
	CreatorDiscord string
	Reason         models.StatusReason
	Feedback       string
}

// Notifier delivery is best effort. Callers log errors and carry on.
type Notifier interface {
	NotifySubmission(ctx context.Context, s Submission) error
	NotifyStatus(ctx context.Context, c StatusChange) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

func (Noop) NotifySubmission(context.Context, Submission) error { return nil }
func (Noop) NotifyStatus(context.Context, StatusChange) error   { return nil }
