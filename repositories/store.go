package repositories

import (
	"context"

	"roadmap-review/models"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
type Store interface {
	Roadmaps() RoadmapRepository
	Versions() RoadmapVersionRepository
	Users() UserRepository
	// Transaction runs f against a Store bound to a single transaction. Any
	// error returned by f rolls the transaction back.
	Transaction(ctx context.Context, f func(tx Store) error) error
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Roadmaps() RoadmapRepository {
	return NewRoadmapRepository(g.db)
}

func (g *GormStore) Versions() RoadmapVersionRepository {
	return NewRoadmapVersionRepository(g.db)
}

func (g *GormStore) Users() UserRepository {
	return NewUserRepository(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Roadmap{},
		&models.RoadmapVersion{},
	)
}
