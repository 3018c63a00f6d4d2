package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

// CommitService handles the branch-commit hook: for every commit reported
// by CI it idempotently ensures the service, feature, branch and iteration
// exist and are associated. Redelivered hooks resolve to the same rows.
type CommitService struct {
	serviceRepo   ports.ServiceRepository
	featureRepo   ports.FeatureRepository
	branchRepo    ports.BranchRepository
	iterationRepo ports.IterationRepository
}

func NewCommitService(
	serviceRepo ports.ServiceRepository,
	featureRepo ports.FeatureRepository,
	branchRepo ports.BranchRepository,
	iterationRepo ports.IterationRepository,
) *CommitService {
	return &CommitService{
		serviceRepo:   serviceRepo,
		featureRepo:   featureRepo,
		branchRepo:    branchRepo,
		iterationRepo: iterationRepo,
	}
}

func (s *CommitService) HandleBranchCommit(ctx context.Context, repoName, featureName, branchName, commitHash string) (*domain.Iteration, error) {
	if repoName == "" {
		return nil, domain.ErrInvalidServiceName
	}
	if featureName == "" {
		return nil, domain.ErrInvalidFeatureName
	}
	if branchName == "" {
		return nil, domain.ErrInvalidBranchName
	}
	if commitHash == "" {
		return nil, domain.ErrInvalidCommitHash
	}

	now := time.Now()

	svc := &domain.Service{ID: uuid.New(), CreatedAt: now, Name: repoName}
	if err := s.serviceRepo.Ensure(ctx, svc); err != nil {
		return nil, err
	}

	feature := &domain.Feature{ID: uuid.New(), CreatedAt: now, ServiceID: svc.ID, Name: featureName}
	if err := s.featureRepo.Ensure(ctx, feature); err != nil {
		return nil, err
	}

	branch := &domain.Branch{
		ID:        uuid.New(),
		CreatedAt: now,
		ServiceID: svc.ID,
		FeatureID: &feature.ID,
		Name:      branchName,
	}
	if err := s.branchRepo.Ensure(ctx, branch); err != nil {
		return nil, err
	}

	iteration := &domain.Iteration{
		ID:         uuid.New(),
		CreatedAt:  now,
		UpdatedAt:  now,
		BranchID:   branch.ID,
		CommitHash: commitHash,
	}
	if err := s.iterationRepo.Ensure(ctx, iteration); err != nil {
		return nil, err
	}

	return iteration, nil
}
