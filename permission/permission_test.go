package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roadmap-review/models"
)

func TestPermissions(t *testing.T) {
	roadmap := &models.Roadmap{ID: "r1", CreatorID: "creator", Status: models.RoadmapStatusDraft}

	creator := models.Actor{UID: "creator", Status: models.UserStatusActive}
	admin := models.Actor{UID: "admin", Status: models.UserStatusActive, IsAdmin: true}
	stranger := models.Actor{UID: "someone", Status: models.UserStatusActive}
	suspendedAdmin := models.Actor{UID: "admin2", Status: models.UserStatusSuspended, IsAdmin: true}
	anonymous := models.Actor{}

	tests := []struct {
		name       string
		actor      models.Actor
		canApprove bool
		canEdit    bool
		isCreator  bool
		canView    bool
	}{
		{"creator", creator, false, true, true, true},
		{"admin", admin, true, true, false, true},
		{"stranger", stranger, false, false, false, false},
		{"suspended admin", suspendedAdmin, false, false, false, true},
		{"anonymous", anonymous, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canApprove, CanApproveRoadmap(tt.actor, roadmap))
			assert.Equal(t, tt.canEdit, CanEditRoadmap(tt.actor, Stub(roadmap)))
			assert.Equal(t, tt.isCreator, IsCreator(tt.actor, roadmap))
			assert.Equal(t, tt.canView, CanViewRoadmap(tt.actor, roadmap))
		})
	}
}

func TestApprovedRoadmapVisibleToEveryone(t *testing.T) {
	roadmap := &models.Roadmap{CreatorID: "creator", Status: models.RoadmapStatusApproved}
	assert.True(t, CanViewRoadmap(models.Actor{}, roadmap))
}
