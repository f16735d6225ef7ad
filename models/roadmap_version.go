package models

import (
	"fmt"
	"time"
)

type VersionStatus string

const (
	VersionStatusDraft    VersionStatus = "draft"
	VersionStatusApproved VersionStatus = "approved"
	VersionStatusRejected VersionStatus = "rejected"
)

// RoadmapVersion is one entry of a roadmap's version log. Metadata fields are
// optional; a nil field inherits the parent roadmap's value.
type RoadmapVersion struct {
	ID                uint          `json:"-" gorm:"primarykey"`
	RoadmapID         string        `json:"roadmapId" gorm:"type:varchar(36);not null;uniqueIndex:idx_roadmap_version"`
	Version           int           `json:"version" gorm:"not null;uniqueIndex:idx_roadmap_version"`
	Status            VersionStatus `json:"status" gorm:"type:varchar(16);not null;default:'draft'"`
	ContentURL        string        `json:"contentUrl"`
	ContentPath       string        `json:"-"`
	Title             *string       `json:"title,omitempty" gorm:"size:200"`
	Description       *string       `json:"description,omitempty" gorm:"type:text"`
	Domain            *string       `json:"domain,omitempty" gorm:"size:100"`
	Difficulty        *string       `json:"difficulty,omitempty" gorm:"size:32"`
	EstimatedHours    *int          `json:"estimatedHours,omitempty"`
	ChangeDescription string        `json:"changeDescription" gorm:"type:text"`
	CreatedBy         string        `json:"createdBy" gorm:"type:varchar(36)"`
	Feedback          *string       `json:"feedback,omitempty" gorm:"type:text"`
	FeedbackAt        *time.Time    `json:"feedbackAt,omitempty"`
	FeedbackBy        *string       `json:"feedbackBy,omitempty"`
	ApprovedAt        *time.Time    `json:"approvedAt,omitempty"`
	ApprovedBy        *string       `json:"approvedBy,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

func DefaultChangeDescription(version int) string {
	return fmt.Sprintf("Version %d", version)
}

func (v *RoadmapVersion) Metadata() MetadataPatch {
	return MetadataPatch{
		Title:          v.Title,
		Description:    v.Description,
		Domain:         v.Domain,
		Difficulty:     v.Difficulty,
		EstimatedHours: v.EstimatedHours,
	}
}

// SetMetadata overwrites only the fields present in patch.
func (v *RoadmapVersion) SetMetadata(patch MetadataPatch) {
	if patch.Title != nil {
		v.Title = patch.Title
	}
	if patch.Description != nil {
		v.Description = patch.Description
	}
	if patch.Domain != nil {
		v.Domain = patch.Domain
	}
	if patch.Difficulty != nil {
		v.Difficulty = patch.Difficulty
	}
	if patch.EstimatedHours != nil {
		v.EstimatedHours = patch.EstimatedHours
	}
}

func (v *RoadmapVersion) Reject(feedback, by string, at time.Time) {
	v.Status = VersionStatusRejected
	v.Feedback = &feedback
	v.FeedbackBy = &by
	v.FeedbackAt = &at
}

func (v *RoadmapVersion) Approve(by string, at time.Time) {
	v.Status = VersionStatusApproved
	v.ApprovedBy = &by
	v.ApprovedAt = &at
}
