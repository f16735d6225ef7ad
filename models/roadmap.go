package models

import (
	"time"

	"gorm.io/gorm"
)

type RoadmapStatus string

const (
	RoadmapStatusDraft    RoadmapStatus = "draft"
	RoadmapStatusPending  RoadmapStatus = "pending"
	RoadmapStatusApproved RoadmapStatus = "approved"
)

func (s RoadmapStatus) Valid() bool {
	switch s {
	case RoadmapStatusDraft, RoadmapStatusPending, RoadmapStatusApproved:
		return true
	}
	return false
}

// Roadmap is the primary record of a learning path. Its content and metadata
// always describe the live version; revisions in review live in RoadmapVersion.
type Roadmap struct {
	ID                 string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatorID          string         `json:"creatorId" gorm:"type:varchar(36);index;not null"`
	Status             RoadmapStatus  `json:"status" gorm:"type:varchar(16);index;not null;default:'draft'"`
	Version            int            `json:"version" gorm:"not null;default:1"`
	ContentURL         string         `json:"contentUrl"`
	ContentPath        string         `json:"-"`
	Title              string         `json:"title" gorm:"size:200;not null"`
	Description        string         `json:"description" gorm:"type:text"`
	Domain             string         `json:"domain" gorm:"size:100;index"`
	Difficulty         string         `json:"difficulty" gorm:"size:32"`
	EstimatedHours     int            `json:"estimatedHours"`
	HasPendingDraft    bool           `json:"hasPendingDraft" gorm:"not null;default:false"`
	DraftVersionNumber *int           `json:"draftVersionNumber"`
	Feedback           *string        `json:"feedback" gorm:"type:text"`
	FeedbackAt         *time.Time     `json:"feedbackAt"`
	FeedbackBy         *string        `json:"feedbackBy"`
	ApprovedAt         *time.Time     `json:"approvedAt"`
	ApprovedBy         *string        `json:"approvedBy"`
	Revision           int            `json:"-" gorm:"not null;default:0"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

func (r *Roadmap) IsApproved() bool {
	return r.Status == RoadmapStatusApproved
}

func (r *Roadmap) HasFeedback() bool {
	return r.Feedback != nil && *r.Feedback != ""
}

// HasRejectedDraft reports whether a rejected revision is waiting for the
// creator to rework it under the same version number.
func (r *Roadmap) HasRejectedDraft() bool {
	return r.DraftVersionNumber != nil && r.HasFeedback()
}

func (r *Roadmap) SetFeedback(feedback, by string, at time.Time) {
	r.Feedback = &feedback
	r.FeedbackBy = &by
	r.FeedbackAt = &at
}

func (r *Roadmap) ClearFeedback() {
	r.Feedback = nil
	r.FeedbackBy = nil
	r.FeedbackAt = nil
}

func (r *Roadmap) MarkApproved(by string, at time.Time) {
	r.Status = RoadmapStatusApproved
	r.ApprovedBy = &by
	r.ApprovedAt = &at
}

// PublicRoadmap is what anonymous readers see of an approved roadmap. Review
// bookkeeping (feedback, draft pointers, approver) stays private.
type PublicRoadmap struct {
	ID             string     `json:"id"`
	CreatorID      string     `json:"creatorId"`
	Version        int        `json:"version"`
	ContentURL     string     `json:"contentUrl"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Domain         string     `json:"domain"`
	Difficulty     string     `json:"difficulty"`
	EstimatedHours int        `json:"estimatedHours"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (r *Roadmap) Public() *PublicRoadmap {
	return &PublicRoadmap{
		ID:             r.ID,
		CreatorID:      r.CreatorID,
		Version:        r.Version,
		ContentURL:     r.ContentURL,
		Title:          r.Title,
		Description:    r.Description,
		Domain:         r.Domain,
		Difficulty:     r.Difficulty,
		EstimatedHours: r.EstimatedHours,
		ApprovedAt:     r.ApprovedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// DomainSummary is one entry of the public domain catalog.
type DomainSummary struct {
	Domain       string `json:"domain"`
	RoadmapCount int    `json:"roadmapCount"`
}
