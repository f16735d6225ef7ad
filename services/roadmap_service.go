package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"roadmap-review/cache"
	"roadmap-review/logger"
	"roadmap-review/models"
	"roadmap-review/notify"
	"roadmap-review/permission"
	"roadmap-review/repositories"
	"roadmap-review/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minContentLength  = 50
	minFeedbackLength = 10
)

type RoadmapService interface {
	CreateRoadmap(ctx context.Context, actor models.Actor, req models.CreateRoadmapRequest) (*models.Roadmap, error)
	GetRoadmap(ctx context.Context, id string, actor models.Actor) (*models.Roadmap, error)
	GetPublicRoadmap(ctx context.Context, id string) (*models.PublicRoadmap, error)
	ListRoadmaps(ctx context.Context, actor models.Actor, params models.ListRoadmapsParams) ([]models.Roadmap, int64, error)
	ListPublicRoadmaps(ctx context.Context, params models.PublicRoadmapParams) ([]models.PublicRoadmap, int64, error)
	UpdateRoadmap(ctx context.Context, id string, actor models.Actor, req models.UpdateRoadmapRequest) (*models.UpdateRoadmapResult, error)
	DeleteRoadmap(ctx context.Context, id string, actor models.Actor) error
	ListVersions(ctx context.Context, id string, actor models.Actor) ([]models.RoadmapVersion, error)
	GetVersion(ctx context.Context, id string, version int, actor models.Actor) (*models.RoadmapVersion, error)
}

type roadmapService struct {
	store    repositories.Store
	content  storage.ContentStore
	notifier notify.Notifier
	cache    cache.RoadmapCache
	log      *logger.Logger
	now      func() time.Time
}

func NewRoadmapService(
	store repositories.Store,
	content storage.ContentStore,
	notifier notify.Notifier,
	roadmapCache cache.RoadmapCache,
	log *logger.Logger,
) RoadmapService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if roadmapCache == nil {
		roadmapCache = cache.Noop{}
	}
	return &roadmapService{
		store:    store,
		content:  content,
		notifier: notifier,
		cache:    roadmapCache,
		log:      log.With("service", "roadmap"),
		now:      time.Now,
	}
}

func (s *roadmapService) CreateRoadmap(ctx context.Context, actor models.Actor, req models.CreateRoadmapRequest) (*models.Roadmap, error) {
	if actor.UID == "" {
		return nil, models.ErrorUnauthorized{Message: "Authentication required."}
	}
	if actor.Status == models.UserStatusSuspended {
		return nil, models.ErrorForbidden{Message: "Suspended accounts cannot create roadmaps."}
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, models.ErrorValidation{Message: "Title is required."}
	}
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}

	now := s.now()
	roadmap := &models.Roadmap{
		ID:             uuid.NewString(),
		CreatorID:      actor.UID,
		Status:         models.RoadmapStatusDraft,
		Version:        1,
		Title:          title,
		Description:    req.Description,
		Domain:         strings.TrimSpace(req.Domain),
		Difficulty:     req.Difficulty,
		EstimatedHours: req.EstimatedHours,
	}

	path := storage.ContentPath(roadmap.ID, roadmap.Version, now)
	url, err := storage.Publish(ctx, s.content, path, req.Content)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to store roadmap content", Err: err}
	}
	roadmap.ContentURL = url
	roadmap.ContentPath = path

	if err := s.store.Roadmaps().Create(ctx, roadmap); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to create roadmap", Err: err}
	}
	s.log.Info("roadmap created", "roadmap_id", roadmap.ID, "creator_id", actor.UID)

	return roadmap, nil
}

func (s *roadmapService) GetRoadmap(ctx context.Context, id string, actor models.Actor) (*models.Roadmap, error) {
	roadmap, err := s.loadRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanViewRoadmap(actor, roadmap) {
		return nil, errRoadmapNotFound
	}
	return roadmap, nil
}

// GetPublicRoadmap serves approved roadmaps through the read cache. Cache
// failures only cost a database read.
func (s *roadmapService) GetPublicRoadmap(ctx context.Context, id string) (*models.PublicRoadmap, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn("roadmap cache read failed", "roadmap_id", id, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	roadmap, err := s.loadRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	if !roadmap.IsApproved() {
		return nil, errRoadmapNotFound
	}

	if err := s.cache.Set(ctx, roadmap); err != nil {
		s.log.Warn("roadmap cache write failed", "roadmap_id", id, "error", err)
	}
	return roadmap.Public(), nil
}

func (s *roadmapService) ListRoadmaps(ctx context.Context, actor models.Actor, params models.ListRoadmapsParams) ([]models.Roadmap, int64, error) {
	if actor.UID == "" {
		return nil, 0, models.ErrorUnauthorized{Message: "Authentication required."}
	}
	status := models.RoadmapStatus(params.Status)
	if status != "" && !status.Valid() {
		return nil, 0, models.ErrorValidation{Message: "Invalid status filter."}
	}

	filter := repositories.RoadmapFilter{
		Status:          status,
		HasPendingDraft: params.HasPendingDraft,
		Page:            params.Page,
		Limit:           params.Limit,
	}
	// Admins see the review queue; everybody else sees their own roadmaps.
	if !actor.IsAdmin {
		filter.CreatorID = actor.UID
	}

	roadmaps, total, err := s.store.Roadmaps().List(ctx, filter)
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list roadmaps", Err: err}
	}
	return roadmaps, total, nil
}

func (s *roadmapService) ListPublicRoadmaps(ctx context.Context, params models.PublicRoadmapParams) ([]models.PublicRoadmap, int64, error) {
	roadmaps, total, err := s.store.Roadmaps().List(ctx, repositories.RoadmapFilter{
		Status:     models.RoadmapStatusApproved,
		Domain:     params.Domain,
		Difficulty: params.Difficulty,
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list roadmaps", Err: err}
	}

	views := make([]models.PublicRoadmap, 0, len(roadmaps))
	for i := range roadmaps {
		views = append(views, *roadmaps[i].Public())
	}
	return views, total, nil
}

// DeleteRoadmap removes a roadmap that was never approved. Stored bodies and
// version records are kept.
func (s *roadmapService) DeleteRoadmap(ctx context.Context, id string, actor models.Actor) error {
	roadmap, err := s.loadRoadmap(ctx, id)
	if err != nil {
		return err
	}
	if !permission.CanEditRoadmap(actor, permission.Stub(roadmap)) {
		return models.ErrorForbidden{Message: "You do not have permission to delete this roadmap."}
	}
	if roadmap.IsApproved() {
		return models.ErrorInvalidState{Message: "Approved roadmaps cannot be deleted."}
	}

	if err := s.store.Roadmaps().Delete(ctx, roadmap.ID); err != nil {
		return models.ErrorInternalServer{Message: "failed to delete roadmap", Err: err}
	}
	s.log.Info("roadmap deleted", "roadmap_id", roadmap.ID, "actor", actor.UID)
	// Soft delete leaves Revision alone; nothing may cache the row again.
	s.invalidate(ctx, roadmap.ID, roadmap.Revision+1)
	return nil
}

func (s *roadmapService) ListVersions(ctx context.Context, id string, actor models.Actor) ([]models.RoadmapVersion, error) {
	roadmap, err := s.loadRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanEditRoadmap(actor, permission.Stub(roadmap)) {
		return nil, models.ErrorForbidden{Message: "You do not have permission to view this roadmap's history."}
	}

	versions, err := s.store.Versions().List(ctx, roadmap.ID)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to list versions", Err: err}
	}
	return versions, nil
}

func (s *roadmapService) GetVersion(ctx context.Context, id string, version int, actor models.Actor) (*models.RoadmapVersion, error) {
	roadmap, err := s.loadRoadmap(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanEditRoadmap(actor, permission.Stub(roadmap)) {
		return nil, models.ErrorForbidden{Message: "You do not have permission to view this roadmap's history."}
	}

	record, err := s.versionAt(ctx, roadmap.ID, version)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, models.ErrorNotFound{Message: "Version not found."}
	}
	return record, nil
}

var errRoadmapNotFound = models.ErrorNotFound{Message: "Roadmap not found."}

func (s *roadmapService) loadRoadmap(ctx context.Context, id string) (*models.Roadmap, error) {
	roadmap, err := s.store.Roadmaps().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRoadmapNotFound
		}
		return nil, models.ErrorInternalServer{Message: "failed to load roadmap", Err: err}
	}
	return roadmap, nil
}

// versionAt returns the version record numbered n, or nil when there is none
// in one of the given statuses.
func (s *roadmapService) versionAt(ctx context.Context, roadmapID string, n int, statuses ...models.VersionStatus) (*models.RoadmapVersion, error) {
	record, err := s.store.Versions().Get(ctx, roadmapID, n, statuses...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.ErrorInternalServer{Message: "failed to load version", Err: err}
	}
	return record, nil
}

func (s *roadmapService) invalidate(ctx context.Context, id string, revision int) {
	if err := s.cache.Invalidate(ctx, id, revision); err != nil {
		s.log.Warn("roadmap cache invalidation failed", "roadmap_id", id, "error", err)
	}
}

func validateContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < minContentLength {
		return models.ErrorValidation{Message: "Content must be at least 50 characters."}
	}
	return nil
}

func validateFeedback(feedback string) (string, error) {
	feedback = strings.TrimSpace(feedback)
	if utf8.RuneCountInString(feedback) < minFeedbackLength {
		return "", models.ErrorValidation{Message: "Feedback must be at least 10 characters."}
	}
	return feedback, nil
}
