// Package permission decides what an actor may do to a roadmap.
package permission

import "roadmap-review/models"

// RoadmapStub is the part of a roadmap the edit check needs; it lets callers
// check permissions before the full document is loaded.
type RoadmapStub struct {
	CreatorID string
}

// active gates every capability. Suspended accounts keep read access but
// lose admin and creator rights even while isAdmin is still set; this is a
// deliberate addition to the admin-iff-isAdmin rule.
func active(actor models.Actor) bool {
	return actor.UID != "" && actor.Status != models.UserStatusSuspended
}

// CanApproveRoadmap reports whether actor may approve or reject submissions.
func CanApproveRoadmap(actor models.Actor, _ *models.Roadmap) bool {
	return active(actor) && actor.IsAdmin
}

// CanEditRoadmap reports whether actor may edit, submit revisions to, or
// delete the roadmap.
func CanEditRoadmap(actor models.Actor, roadmap RoadmapStub) bool {
	if !active(actor) {
		return false
	}
	return actor.IsAdmin || actor.UID == roadmap.CreatorID
}

func IsCreator(actor models.Actor, roadmap *models.Roadmap) bool {
	return active(actor) && roadmap != nil && actor.UID == roadmap.CreatorID
}

// CanViewRoadmap reports whether actor may see a roadmap that is not yet
// approved. Approved roadmaps are visible to everyone.
func CanViewRoadmap(actor models.Actor, roadmap *models.Roadmap) bool {
	if roadmap.IsApproved() {
		return true
	}
	return actor.UID != "" && (actor.IsAdmin || actor.UID == roadmap.CreatorID)
}

func Stub(roadmap *models.Roadmap) RoadmapStub {
	return RoadmapStub{CreatorID: roadmap.CreatorID}
}
