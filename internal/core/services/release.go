package services

import (
	"context"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

type ReleaseService struct {
	releaseRepo ports.ReleaseRepository
}

func NewReleaseService(releaseRepo ports.ReleaseRepository) *ReleaseService {
	return &ReleaseService{releaseRepo: releaseRepo}
}

func (s *ReleaseService) Get(ctx context.Context, id uuid.UUID) (*domain.Release, error) {
	return s.releaseRepo.GetByID(ctx, id)
}

func (s *ReleaseService) List(ctx context.Context, filter ports.ReleaseFilter) ([]*domain.Release, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.releaseRepo.List(ctx, filter)
}
