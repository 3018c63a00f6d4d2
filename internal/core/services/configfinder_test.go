package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"herd-api/internal/core/domain"
	"herd-api/internal/testutil"
)

func TestConfigFinder_BranchHistoryWins(t *testing.T) {
	configRepo := new(testutil.MockConfigRepo)
	branchRepo := new(testutil.MockBranchRepo)
	finder := NewConfigFinder(configRepo, branchRepo)

	branch := &domain.Branch{
		ID:                  uuid.New(),
		ServiceID:           uuid.New(),
		Name:                "b",
		MergeBaseCommitHash: "mb",
	}
	branchCfg := &domain.Config{ID: uuid.New(), KeyValuePairs: `"B"=>"b"`}

	branchRepo.On("GetByID", mock.Anything, branch.ID).Return(branch, nil)
	configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(branchCfg, nil)

	cfg, err := finder.Find(context.Background(), branch.ID)
	assert.NoError(t, err)
	assert.Equal(t, branchCfg.ID, cfg.ID)
	// merge base must not be consulted when the branch has history
	configRepo.AssertNotCalled(t, "LatestReleasedOnCommit", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfigFinder_FallsBackToMergeBase(t *testing.T) {
	configRepo := new(testutil.MockConfigRepo)
	branchRepo := new(testutil.MockBranchRepo)
	finder := NewConfigFinder(configRepo, branchRepo)

	branch := &domain.Branch{
		ID:                  uuid.New(),
		ServiceID:           uuid.New(),
		Name:                "b3",
		MergeBaseCommitHash: "c",
	}
	mergeBaseCfg := &domain.Config{ID: uuid.New(), KeyValuePairs: `"A"=>"a"`}

	configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(nil, domain.ErrConfigNotFound)
	configRepo.On("LatestReleasedOnCommit", mock.Anything, branch.ServiceID, "c").Return(mergeBaseCfg, nil)

	cfg, err := finder.FindForBranch(context.Background(), branch)
	assert.NoError(t, err)
	assert.Equal(t, mergeBaseCfg.ID, cfg.ID)
}

func TestConfigFinder_FallsBackToUnitConfig(t *testing.T) {
	configRepo := new(testutil.MockConfigRepo)
	branchRepo := new(testutil.MockBranchRepo)
	finder := NewConfigFinder(configRepo, branchRepo)

	branch := &domain.Branch{
		ID:                  uuid.New(),
		ServiceID:           uuid.New(),
		Name:                "bx",
		MergeBaseCommitHash: "mx",
	}
	unit := &domain.Config{ID: uuid.New(), KeyValuePairs: ""}

	configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(nil, domain.ErrConfigNotFound)
	configRepo.On("LatestReleasedOnCommit", mock.Anything, branch.ServiceID, "mx").Return(nil, domain.ErrConfigNotFound)
	configRepo.On("EnsureEmpty", mock.Anything).Return(unit, nil)

	cfg, err := finder.FindForBranch(context.Background(), branch)
	assert.NoError(t, err)
	assert.Equal(t, "", cfg.KeyValuePairs)
}

func TestConfigFinder_NoMergeBaseSkipsCommitLookup(t *testing.T) {
	configRepo := new(testutil.MockConfigRepo)
	branchRepo := new(testutil.MockBranchRepo)
	finder := NewConfigFinder(configRepo, branchRepo)

	branch := &domain.Branch{ID: uuid.New(), ServiceID: uuid.New(), Name: "b"}
	unit := &domain.Config{ID: uuid.New()}

	configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(nil, domain.ErrConfigNotFound)
	configRepo.On("EnsureEmpty", mock.Anything).Return(unit, nil)

	cfg, err := finder.FindForBranch(context.Background(), branch)
	assert.NoError(t, err)
	assert.Equal(t, unit.ID, cfg.ID)
	configRepo.AssertNotCalled(t, "LatestReleasedOnCommit", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfigFinder_PropagatesRepoError(t *testing.T) {
	configRepo := new(testutil.MockConfigRepo)
	branchRepo := new(testutil.MockBranchRepo)
	finder := NewConfigFinder(configRepo, branchRepo)

	branch := &domain.Branch{ID: uuid.New(), ServiceID: uuid.New(), Name: "b"}
	boom := errors.New("connection reset")

	configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(nil, boom)

	_, err := finder.FindForBranch(context.Background(), branch)
	assert.ErrorIs(t, err, boom)
}

func TestConfigFinder_UnknownBranch(t *testing.T) {
	configRepo := new(testutil.MockConfigRepo)
	branchRepo := new(testutil.MockBranchRepo)
	finder := NewConfigFinder(configRepo, branchRepo)

	id := uuid.New()
	branchRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrBranchNotFound)

	_, err := finder.Find(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}
