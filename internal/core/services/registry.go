package services

import (
	"context"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

// RegistryService serves the read side of the registry plus the few
// mutations that are not hook-driven.
type RegistryService struct {
	serviceRepo   ports.ServiceRepository
	featureRepo   ports.FeatureRepository
	branchRepo    ports.BranchRepository
	iterationRepo ports.IterationRepository
}

func NewRegistryService(
	serviceRepo ports.ServiceRepository,
	featureRepo ports.FeatureRepository,
	branchRepo ports.BranchRepository,
	iterationRepo ports.IterationRepository,
) *RegistryService {
	return &RegistryService{
		serviceRepo:   serviceRepo,
		featureRepo:   featureRepo,
		branchRepo:    branchRepo,
		iterationRepo: iterationRepo,
	}
}

func clampFilter(filter ports.ListFilter) ports.ListFilter {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return filter
}

func (s *RegistryService) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	return s.serviceRepo.GetByID(ctx, id)
}

func (s *RegistryService) FindService(ctx context.Context, name string) (*domain.Service, error) {
	if name == "" {
		return nil, domain.ErrInvalidServiceName
	}
	return s.serviceRepo.GetByName(ctx, name)
}

func (s *RegistryService) ListServices(ctx context.Context, filter ports.ListFilter) ([]*domain.Service, int, error) {
	return s.serviceRepo.List(ctx, clampFilter(filter))
}

func (s *RegistryService) ListFeatures(ctx context.Context, serviceID uuid.UUID, filter ports.ListFilter) ([]*domain.Feature, int, error) {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return nil, 0, err
	}
	return s.featureRepo.ListByService(ctx, serviceID, clampFilter(filter))
}

func (s *RegistryService) GetBranch(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	return s.branchRepo.GetByID(ctx, id)
}

func (s *RegistryService) ListBranches(ctx context.Context, serviceID uuid.UUID, filter ports.ListFilter) ([]*domain.Branch, int, error) {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return nil, 0, err
	}
	return s.branchRepo.ListByService(ctx, serviceID, clampFilter(filter))
}

func (s *RegistryService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch.DeletedAt != nil {
		return domain.ErrBranchDeleted
	}
	return s.branchRepo.SoftDelete(ctx, id)
}

func (s *RegistryService) GetIteration(ctx context.Context, id uuid.UUID) (*domain.Iteration, error) {
	return s.iterationRepo.GetByID(ctx, id)
}

func (s *RegistryService) FindIteration(ctx context.Context, commitHash string) (*domain.Iteration, error) {
	if commitHash == "" {
		return nil, domain.ErrInvalidCommitHash
	}
	return s.iterationRepo.GetByCommitHash(ctx, commitHash)
}

func (s *RegistryService) ListIterations(ctx context.Context, branchID uuid.UUID, filter ports.ListFilter) ([]*domain.Iteration, int, error) {
	if _, err := s.branchRepo.GetByID(ctx, branchID); err != nil {
		return nil, 0, err
	}
	return s.iterationRepo.ListByBranch(ctx, branchID, clampFilter(filter))
}

// SetIterationImage overwrites the image name of an iteration. Unlike the
// build hooks this is an explicit operator action, so last write wins.
func (s *RegistryService) SetIterationImage(ctx context.Context, id uuid.UUID, imageName string) (*domain.Iteration, error) {
	if imageName == "" {
		return nil, domain.ErrInvalidImageName
	}
	if err := s.iterationRepo.SetImageName(ctx, id, imageName); err != nil {
		return nil, err
	}
	return s.iterationRepo.GetByID(ctx, id)
}
