package repositories

import (
	"context"

	"roadmap-review/models"

	"gorm.io/gorm"
)

type RoadmapVersionRepository interface {
	Create(ctx context.Context, version *models.RoadmapVersion) error
	// Get returns the version record numbered n. When statuses are given the
	// record must also be in one of them.
	Get(ctx context.Context, roadmapID string, n int, statuses ...models.VersionStatus) (*models.RoadmapVersion, error)
	List(ctx context.Context, roadmapID string) ([]models.RoadmapVersion, error)
	Update(ctx context.Context, version *models.RoadmapVersion) error
}

type roadmapVersionRepository struct {
	db *gorm.DB
}

func NewRoadmapVersionRepository(db *gorm.DB) RoadmapVersionRepository {
	return &roadmapVersionRepository{db: db}
}

func (r *roadmapVersionRepository) Create(ctx context.Context, version *models.RoadmapVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *roadmapVersionRepository) Get(ctx context.Context, roadmapID string, n int, statuses ...models.VersionStatus) (*models.RoadmapVersion, error) {
	var version models.RoadmapVersion
	query := r.db.WithContext(ctx).Where("roadmap_id = ? AND version = ?", roadmapID, n)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *roadmapVersionRepository) List(ctx context.Context, roadmapID string) ([]models.RoadmapVersion, error) {
	var versions []models.RoadmapVersion
	err := r.db.WithContext(ctx).
		Where("roadmap_id = ?", roadmapID).
		Order("version desc").
		Find(&versions).Error
	return versions, err
}

func (r *roadmapVersionRepository) Update(ctx context.Context, version *models.RoadmapVersion) error {
	return r.db.WithContext(ctx).Save(version).Error
}
