package services

import (
	"context"

	"roadmap-review/models"
	"roadmap-review/repositories"
)

type CatalogService interface {
	ListDomains(ctx context.Context) ([]models.DomainSummary, error)
}

type catalogService struct {
	roadmapRepo repositories.RoadmapRepository
}

func NewCatalogService(roadmapRepo repositories.RoadmapRepository) CatalogService {
	return &catalogService{roadmapRepo: roadmapRepo}
}

// ListDomains returns the domains that have at least one approved roadmap.
func (s *catalogService) ListDomains(ctx context.Context) ([]models.DomainSummary, error) {
	domains, err := s.roadmapRepo.CountByDomain(ctx)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to list domains", Err: err}
	}
	if domains == nil {
		domains = []models.DomainSummary{}
	}
	return domains, nil
}
