package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roadmap-review/models"
	"roadmap-review/notify"
	"roadmap-review/permission"
	"roadmap-review/repositories"
	"roadmap-review/storage"
)

const notifyTimeout = 10 * time.Second

// transition is what a successful action reports back, plus the alerts to
// send once its writes are committed.
type transition struct {
	message    string
	version    *int
	submission *notify.Submission
	status     *notify.StatusChange
}

// UpdateRoadmap is the single entry point for roadmap lifecycle actions.
// Each action checks its preconditions against the roadmap as read, then
// commits all of its writes in one transaction guarded by the roadmap's
// revision.
func (s *roadmapService) UpdateRoadmap(ctx context.Context, id string, actor models.Actor, req models.UpdateRoadmapRequest) (*models.UpdateRoadmapResult, error) {
	if actor.UID == "" {
		return nil, models.ErrorUnauthorized{Message: "Authentication required."}
	}
	if !req.Action.Valid() {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("Invalid action %q.", req.Action)}
	}

	roadmap, err := s.loadRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}

	var t *transition
	switch req.Action {
	case models.ActionSubmit:
		t, err = s.submit(ctx, roadmap, actor)
	case models.ActionApprove:
		t, err = s.approve(ctx, roadmap, actor)
	case models.ActionRequestChanges:
		t, err = s.requestChanges(ctx, roadmap, actor, req.Feedback)
	case models.ActionApproveDraft:
		t, err = s.approveDraft(ctx, roadmap, actor)
	case models.ActionEdit:
		t, err = s.edit(ctx, roadmap, actor, req)
	}
	if err != nil {
		s.log.Debug("roadmap transition rejected", "roadmap_id", id, "action", req.Action, "actor", actor.UID, "error", err)
		return nil, err
	}

	s.log.Info("roadmap transition applied",
		"roadmap_id", roadmap.ID,
		"action", req.Action,
		"actor", actor.UID,
		"status", roadmap.Status,
		"version", roadmap.Version,
		"has_pending_draft", roadmap.HasPendingDraft,
	)
	s.invalidate(ctx, roadmap.ID, roadmap.Revision)
	s.deliver(ctx, roadmap, t)

	return &models.UpdateRoadmapResult{Message: t.message, Version: t.version}, nil
}

func (s *roadmapService) submit(ctx context.Context, roadmap *models.Roadmap, actor models.Actor) (*transition, error) {
	if roadmap.Status != models.RoadmapStatusDraft {
		return nil, models.ErrorInvalidState{Message: "Only draft roadmaps can be submitted."}
	}
	if !permission.IsCreator(actor, roadmap) {
		return nil, models.ErrorForbidden{Message: "Only the creator can submit this roadmap."}
	}

	roadmap.Status = models.RoadmapStatusPending
	if err := s.commit(ctx, roadmap, nil); err != nil {
		return nil, err
	}

	return &transition{
		message:    "Roadmap submitted for review.",
		submission: &notify.Submission{Version: roadmap.Version},
	}, nil
}

func (s *roadmapService) approve(ctx context.Context, roadmap *models.Roadmap, actor models.Actor) (*transition, error) {
	if !permission.CanApproveRoadmap(actor, roadmap) {
		return nil, models.ErrorForbidden{Message: "Only admins can approve roadmaps."}
	}
	if roadmap.Status != models.RoadmapStatusPending {
		return nil, models.ErrorInvalidState{Message: "Only pending roadmaps can be approved."}
	}

	// A direct edit may have logged a record for the live version; it goes
	// live together with the roadmap.
	record, err := s.versionAt(ctx, roadmap.ID, roadmap.Version, models.VersionStatusDraft)
	if err != nil {
		return nil, err
	}

	now := s.now()
	roadmap.MarkApproved(actor.UID, now)
	err = s.commit(ctx, roadmap, func(tx repositories.Store) error {
		if record == nil {
			return nil
		}
		record.Approve(actor.UID, now)
		return tx.Versions().Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &transition{
		message: "Roadmap approved.",
		status:  &notify.StatusChange{Reason: models.ReasonApproved},
	}, nil
}

func (s *roadmapService) requestChanges(ctx context.Context, roadmap *models.Roadmap, actor models.Actor, feedback string) (*transition, error) {
	if !permission.CanApproveRoadmap(actor, roadmap) {
		return nil, models.ErrorForbidden{Message: "Only admins can request changes."}
	}
	feedback, err := validateFeedback(feedback)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case roadmap.Status == models.RoadmapStatusPending:
		roadmap.Status = models.RoadmapStatusDraft
		roadmap.SetFeedback(feedback, actor.UID, now)
		if err := s.commit(ctx, roadmap, nil); err != nil {
			return nil, err
		}
		return &transition{
			message: "Changes requested.",
			status:  &notify.StatusChange{Reason: models.ReasonChangesRequested, Feedback: feedback},
		}, nil

	case roadmap.HasPendingDraft:
		record, err := s.pendingDraft(ctx, roadmap)
		if err != nil {
			return nil, err
		}
		record.Reject(feedback, actor.UID, now)
		// DraftVersionNumber stays so the creator reworks the same version.
		roadmap.HasPendingDraft = false
		roadmap.SetFeedback(feedback, actor.UID, now)
		err = s.commit(ctx, roadmap, func(tx repositories.Store) error {
			return tx.Versions().Update(ctx, record)
		})
		if err != nil {
			return nil, err
		}
		return &transition{
			message: fmt.Sprintf("Changes requested for version %d.", record.Version),
			status:  &notify.StatusChange{Reason: models.ReasonDraftChangesRequested, Feedback: feedback},
		}, nil

	default:
		return nil, models.ErrorInvalidState{Message: "Only pending roadmaps or draft versions can have changes requested."}
	}
}

func (s *roadmapService) approveDraft(ctx context.Context, roadmap *models.Roadmap, actor models.Actor) (*transition, error) {
	if !permission.CanApproveRoadmap(actor, roadmap) {
		return nil, models.ErrorForbidden{Message: "Only admins can approve draft versions."}
	}
	if !roadmap.HasPendingDraft {
		return nil, models.ErrorInvalidState{Message: "No pending draft version found."}
	}
	record, err := s.pendingDraft(ctx, roadmap)
	if err != nil {
		return nil, err
	}

	now := s.now()
	roadmap.ContentURL = record.ContentURL
	roadmap.ContentPath = record.ContentPath
	roadmap.Version = record.Version
	record.Metadata().ApplyTo(roadmap)
	roadmap.MarkApproved(actor.UID, now)
	roadmap.HasPendingDraft = false
	roadmap.DraftVersionNumber = nil
	record.Approve(actor.UID, now)

	err = s.commit(ctx, roadmap, func(tx repositories.Store) error {
		return tx.Versions().Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	version := roadmap.Version
	return &transition{
		message: fmt.Sprintf("Version %d approved and now live.", version),
		version: &version,
		status:  &notify.StatusChange{Reason: models.ReasonDraftApproved},
	}, nil
}

// editMode is where an edit's content lands.
type editMode int

const (
	// editDirect rewrites the roadmap itself; it has never been approved.
	editDirect editMode = iota
	// editRevision opens a new draft version above the live one.
	editRevision
	// editRework revises a rejected draft under its existing number.
	editRework
)

func (s *roadmapService) edit(ctx context.Context, roadmap *models.Roadmap, actor models.Actor, req models.UpdateRoadmapRequest) (*transition, error) {
	if !permission.CanEditRoadmap(actor, permission.Stub(roadmap)) {
		return nil, models.ErrorForbidden{Message: "You do not have permission to edit this roadmap."}
	}
	// Feedback on the roadmap means the pending draft was already rejected.
	if roadmap.HasPendingDraft && !roadmap.HasFeedback() {
		return nil, models.ErrorConflict{Message: "Draft already exists. Please wait for it to be approved or rejected before submitting another version."}
	}
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}

	mode := editDirect
	newVersion := roadmap.Version
	var reworked *models.RoadmapVersion
	switch {
	case roadmap.HasRejectedDraft():
		newVersion = *roadmap.DraftVersionNumber
		record, err := s.versionAt(ctx, roadmap.ID, newVersion, models.VersionStatusDraft, models.VersionStatusRejected)
		if err != nil {
			return nil, err
		}
		if record == nil {
			s.log.Warn("rejected draft record missing, editing roadmap directly",
				"roadmap_id", roadmap.ID, "draft_version", newVersion)
			break
		}
		mode, reworked = editRework, record
	case roadmap.IsApproved():
		mode = editRevision
		newVersion = roadmap.Version + 1
	}

	now := s.now()
	path := storage.ContentPath(roadmap.ID, newVersion, now)
	url, err := storage.Publish(ctx, s.content, path, req.Content)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to store roadmap content", Err: err}
	}
	patch := req.Metadata()

	switch mode {
	case editRevision:
		return s.openRevision(ctx, roadmap, actor, req, patch, newVersion, url, path)
	case editRework:
		return s.reworkDraft(ctx, roadmap, reworked, req, patch, url, path)
	default:
		return s.editDirectly(ctx, roadmap, actor, req, patch, newVersion, url, path)
	}
}

func (s *roadmapService) openRevision(
	ctx context.Context,
	roadmap *models.Roadmap,
	actor models.Actor,
	req models.UpdateRoadmapRequest,
	patch models.MetadataPatch,
	n int,
	url, path string,
) (*transition, error) {
	record := &models.RoadmapVersion{
		RoadmapID:         roadmap.ID,
		Version:           n,
		Status:            models.VersionStatusDraft,
		ContentURL:        url,
		ContentPath:       path,
		ChangeDescription: changeDescription(req, n, false),
		CreatedBy:         actor.UID,
	}
	record.SetMetadata(patch)

	roadmap.HasPendingDraft = true
	roadmap.DraftVersionNumber = &n
	roadmap.ClearFeedback()

	err := s.commit(ctx, roadmap, func(tx repositories.Store) error {
		return tx.Versions().Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &transition{
		message:    fmt.Sprintf("Version %d submitted for review.", n),
		version:    &n,
		submission: &notify.Submission{IsRevision: true, Version: n},
	}, nil
}

// reworkDraft revises a rejected draft in place and puts it back in the
// review queue.
func (s *roadmapService) reworkDraft(
	ctx context.Context,
	roadmap *models.Roadmap,
	record *models.RoadmapVersion,
	req models.UpdateRoadmapRequest,
	patch models.MetadataPatch,
	url, path string,
) (*transition, error) {
	n := record.Version
	record.ContentURL = url
	record.ContentPath = path
	record.SetMetadata(patch)
	record.ChangeDescription = changeDescription(req, n, true)
	record.Status = models.VersionStatusDraft

	roadmap.ClearFeedback()
	roadmap.HasPendingDraft = true

	err := s.commit(ctx, roadmap, func(tx repositories.Store) error {
		return tx.Versions().Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &transition{
		message:    fmt.Sprintf("Version %d revised and resubmitted for review.", n),
		version:    &n,
		submission: &notify.Submission{IsRevision: true, Version: n},
	}, nil
}

// editDirectly updates a roadmap that has no live version yet and keeps a
// version record for it in step.
func (s *roadmapService) editDirectly(
	ctx context.Context,
	roadmap *models.Roadmap,
	actor models.Actor,
	req models.UpdateRoadmapRequest,
	patch models.MetadataPatch,
	n int,
	url, path string,
) (*transition, error) {
	record, err := s.versionAt(ctx, roadmap.ID, n)
	if err != nil {
		return nil, err
	}

	roadmap.ContentURL = url
	roadmap.ContentPath = path
	patch.ApplyTo(roadmap)
	roadmap.ClearFeedback()

	err = s.commit(ctx, roadmap, func(tx repositories.Store) error {
		if record != nil {
			record.ContentURL = url
			record.ContentPath = path
			record.SetMetadata(patch)
			if d := strings.TrimSpace(req.ChangeDescription); d != "" {
				record.ChangeDescription = d
			}
			return tx.Versions().Update(ctx, record)
		}
		record = &models.RoadmapVersion{
			RoadmapID:         roadmap.ID,
			Version:           n,
			Status:            models.VersionStatusDraft,
			ContentURL:        url,
			ContentPath:       path,
			ChangeDescription: changeDescription(req, n, false),
			CreatedBy:         actor.UID,
		}
		record.SetMetadata(patch)
		return tx.Versions().Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	return &transition{
		message: "Roadmap updated.",
		version: &n,
	}, nil
}

// pendingDraft loads the draft record the roadmap points at.
func (s *roadmapService) pendingDraft(ctx context.Context, roadmap *models.Roadmap) (*models.RoadmapVersion, error) {
	if roadmap.DraftVersionNumber == nil {
		return nil, models.ErrorNotFound{Message: "Draft version not found."}
	}
	record, err := s.versionAt(ctx, roadmap.ID, *roadmap.DraftVersionNumber, models.VersionStatusDraft)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, models.ErrorNotFound{Message: "Draft version not found."}
	}
	return record, nil
}

// commit writes roadmap, only if its revision is unchanged since it was read,
// and then runs writes in the same transaction.
func (s *roadmapService) commit(ctx context.Context, roadmap *models.Roadmap, writes func(tx repositories.Store) error) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Roadmaps().Update(ctx, roadmap); err != nil {
			return err
		}
		if writes == nil {
			return nil
		}
		return writes(tx)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrStaleRoadmap):
		return models.ErrorConflict{Message: "Roadmap was modified by another request. Reload it and try again."}
	default:
		return models.ErrorInternalServer{Message: "failed to save roadmap", Err: err}
	}
}

// deliver sends the transition's alerts. Delivery failures are logged and
// never reach the caller.
func (s *roadmapService) deliver(ctx context.Context, roadmap *models.Roadmap, t *transition) {
	if t.submission == nil && t.status == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	creator := s.creator(ctx, roadmap.CreatorID)

	if t.submission != nil {
		sub := *t.submission
		sub.RoadmapID = roadmap.ID
		sub.Title = roadmap.Title
		sub.CreatorName = creator.DisplayName
		s.bestEffort("submission", roadmap.ID, s.notifier.NotifySubmission(ctx, sub))
	}
	if t.status != nil {
		change := *t.status
		change.RoadmapID = roadmap.ID
		change.Title = roadmap.Title
		change.CreatorDiscord = creator.DiscordHandle
		s.bestEffort(string(change.Reason), roadmap.ID, s.notifier.NotifyStatus(ctx, change))
	}
}

func (s *roadmapService) bestEffort(kind, roadmapID string, err error) {
	if err != nil {
		s.log.Warn("notification failed", "kind", kind, "roadmap_id", roadmapID, "error", err)
	}
}

func (s *roadmapService) creator(ctx context.Context, id string) models.User {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		s.log.Warn("creator lookup for notification failed", "creator_id", id, "error", err)
		return models.User{ID: id, DisplayName: "Unknown creator"}
	}
	return *user
}

func changeDescription(req models.UpdateRoadmapRequest, n int, revised bool) string {
	if d := strings.TrimSpace(req.ChangeDescription); d != "" {
		return d
	}
	d := models.DefaultChangeDescription(n)
	if revised {
		d += " (revised)"
	}
	return d
}
