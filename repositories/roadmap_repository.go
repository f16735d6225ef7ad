package repositories

import (
	"context"
	"errors"

	"roadmap-review/models"

	"gorm.io/gorm"
)

// ErrStaleRoadmap is returned by Update when the row's revision no longer
// matches the one the caller read.
var ErrStaleRoadmap = errors.New("roadmap was modified concurrently")

type RoadmapFilter struct {
	CreatorID       string
	Status          models.RoadmapStatus
	HasPendingDraft *bool
	Domain          string
	Difficulty      string
	Page            int
	Limit           int
}

type RoadmapRepository interface {
	Create(ctx context.Context, roadmap *models.Roadmap) error
	GetByID(ctx context.Context, id string) (*models.Roadmap, error)
	List(ctx context.Context, filter RoadmapFilter) ([]models.Roadmap, int64, error)
	Update(ctx context.Context, roadmap *models.Roadmap) error
	Delete(ctx context.Context, id string) error
	CountByDomain(ctx context.Context) ([]models.DomainSummary, error)
}

type roadmapRepository struct {
	db *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) RoadmapRepository {
	return &roadmapRepository{db: db}
}

func (r *roadmapRepository) Create(ctx context.Context, roadmap *models.Roadmap) error {
	return r.db.WithContext(ctx).Create(roadmap).Error
}

func (r *roadmapRepository) GetByID(ctx context.Context, id string) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&roadmap).Error
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *roadmapRepository) List(ctx context.Context, filter RoadmapFilter) ([]models.Roadmap, int64, error) {
	var roadmaps []models.Roadmap
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Roadmap{})

	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.HasPendingDraft != nil {
		query = query.Where("has_pending_draft = ?", *filter.HasPendingDraft)
	}
	if filter.Domain != "" {
		query = query.Where("domain = ?", filter.Domain)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	err := query.Order("updated_at desc").Offset(offset).Limit(limit).Find(&roadmaps).Error

	return roadmaps, total, err
}

// Update writes every column of roadmap, but only if nobody else wrote the
// row since it was read. On success roadmap.Revision is advanced.
func (r *roadmapRepository) Update(ctx context.Context, roadmap *models.Roadmap) error {
	expected := roadmap.Revision
	roadmap.Revision = expected + 1

	res := r.db.WithContext(ctx).
		Model(roadmap).
		Where("revision = ?", expected).
		Select("*").
		Omit("id", "creator_id", "created_at", "deleted_at").
		Updates(roadmap)
	if res.Error != nil {
		roadmap.Revision = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		roadmap.Revision = expected
		return ErrStaleRoadmap
	}
	return nil
}

func (r *roadmapRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Roadmap{}).Error
}

// CountByDomain counts approved roadmaps per non-empty domain, largest first.
func (r *roadmapRepository) CountByDomain(ctx context.Context) ([]models.DomainSummary, error) {
	var results []models.DomainSummary

	err := r.db.WithContext(ctx).
		Model(&models.Roadmap{}).
		Select("domain, COUNT(*) AS roadmap_count").
		Where("status = ? AND domain <> ''", models.RoadmapStatusApproved).
		Group("domain").
		Order("roadmap_count desc, domain asc").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}
