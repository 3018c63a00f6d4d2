package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

// ConfigFinder picks the config a new release on a branch should ship
// with. The lookup walks the release history:
//
//  1. the config of the most recent release on the branch itself,
//  2. failing that, the config of the most recent release of the branch's
//     merge-base commit anywhere in the same service,
//  3. failing that, the unit config.
//
// A fresh branch therefore inherits the config of the commit it forked
// from, and a brand new service releases with no config at all.
type ConfigFinder struct {
	configRepo ports.ConfigRepository
	branchRepo ports.BranchRepository
}

func NewConfigFinder(configRepo ports.ConfigRepository, branchRepo ports.BranchRepository) *ConfigFinder {
	return &ConfigFinder{configRepo: configRepo, branchRepo: branchRepo}
}

func (f *ConfigFinder) Find(ctx context.Context, branchID uuid.UUID) (*domain.Config, error) {
	branch, err := f.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return f.FindForBranch(ctx, branch)
}

func (f *ConfigFinder) FindForBranch(ctx context.Context, branch *domain.Branch) (*domain.Config, error) {
	cfg, err := f.configRepo.LatestReleasedOnBranch(ctx, branch.ID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, domain.ErrConfigNotFound) {
		return nil, err
	}

	if branch.MergeBaseCommitHash != "" {
		cfg, err = f.configRepo.LatestReleasedOnCommit(ctx, branch.ServiceID, branch.MergeBaseCommitHash)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, domain.ErrConfigNotFound) {
			return nil, err
		}
	}

	return f.configRepo.EnsureEmpty(ctx)
}
