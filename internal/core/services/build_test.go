package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"herd-api/internal/core/domain"
	"herd-api/internal/testutil"
)

type buildFixture struct {
	svc           *BuildService
	serviceRepo   *testutil.MockServiceRepo
	branchRepo    *testutil.MockBranchRepo
	iterationRepo *testutil.MockIterationRepo
	pipelineRepo  *testutil.MockPipelineRepo
	releaseRepo   *testutil.MockReleaseRepo
	configRepo    *testutil.MockConfigRepo
	runner        *testutil.MockDeployRunner
}

func newBuildFixture(withRunner bool) *buildFixture {
	f := &buildFixture{
		serviceRepo:   new(testutil.MockServiceRepo),
		branchRepo:    new(testutil.MockBranchRepo),
		iterationRepo: new(testutil.MockIterationRepo),
		pipelineRepo:  new(testutil.MockPipelineRepo),
		releaseRepo:   new(testutil.MockReleaseRepo),
		configRepo:    new(testutil.MockConfigRepo),
		runner:        new(testutil.MockDeployRunner),
	}
	finder := NewConfigFinder(f.configRepo, f.branchRepo)
	if withRunner {
		f.svc = NewBuildService(f.serviceRepo, f.branchRepo, f.iterationRepo, f.pipelineRepo, f.releaseRepo, finder, f.runner)
	} else {
		f.svc = NewBuildService(f.serviceRepo, f.branchRepo, f.iterationRepo, f.pipelineRepo, f.releaseRepo, finder, nil)
	}
	return f
}

func (f *buildFixture) stubEnsures(serviceID, branchID uuid.UUID) {
	f.serviceRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Service")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Service).ID = serviceID
		}).Return(nil)
	f.branchRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Branch")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Branch).ID = branchID
		}).Return(nil)
	f.iterationRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Iteration")).Return(nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
}

func TestBuildService_HandleBuild_ReleasesWithBranchConfig(t *testing.T) {
	f := newBuildFixture(true)

	serviceID := uuid.New()
	branchID := uuid.New()
	cfg := &domain.Config{ID: uuid.New(), KeyValuePairs: `"B"=>"b"`}

	f.stubEnsures(serviceID, branchID)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branchID).Return(cfg, nil)
	f.runner.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.DeployEvent")).Return(nil)

	result, err := f.svc.HandleBuild(context.Background(), "s", "b", "mb", "c4", "i4")
	assert.NoError(t, err)
	assert.Equal(t, cfg.ID, result.Config.ID)
	assert.Equal(t, cfg.ID, result.Release.ConfigID)
	assert.Nil(t, result.Release.PipelineID)
	assert.True(t, result.Dispatched)

	event := f.runner.Calls[0].Arguments.Get(1).(domain.DeployEvent)
	assert.Equal(t, result.Release.ID, event.ReleaseID)
	assert.Equal(t, domain.DeployActionUpdate, event.Action)
}

func TestBuildService_HandleBuild_NewBranchInheritsMergeBaseConfig(t *testing.T) {
	f := newBuildFixture(false)

	serviceID := uuid.New()
	branchID := uuid.New()
	mergeBaseCfg := &domain.Config{ID: uuid.New(), KeyValuePairs: `"A"=>"a"`}

	f.stubEnsures(serviceID, branchID)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branchID).Return(nil, domain.ErrConfigNotFound)
	f.configRepo.On("LatestReleasedOnCommit", mock.Anything, serviceID, "c").Return(mergeBaseCfg, nil)

	result, err := f.svc.HandleBuild(context.Background(), "s", "b3", "c", "c6", "i6")
	assert.NoError(t, err)
	assert.Equal(t, mergeBaseCfg.ID, result.Release.ConfigID)
	assert.False(t, result.Dispatched)
}

func TestBuildService_HandleBuild_NewServiceReleasesWithUnitConfig(t *testing.T) {
	f := newBuildFixture(false)

	serviceID := uuid.New()
	branchID := uuid.New()
	unit := &domain.Config{ID: uuid.New(), KeyValuePairs: ""}

	f.stubEnsures(serviceID, branchID)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branchID).Return(nil, domain.ErrConfigNotFound)
	f.configRepo.On("LatestReleasedOnCommit", mock.Anything, serviceID, "mx").Return(nil, domain.ErrConfigNotFound)
	f.configRepo.On("EnsureEmpty", mock.Anything).Return(unit, nil)

	result, err := f.svc.HandleBuild(context.Background(), "sx", "bx", "mx", "cx", "ix")
	assert.NoError(t, err)
	assert.Equal(t, "", result.Config.KeyValuePairs)
}

func TestBuildService_HandleBuild_FillsEmptyImageName(t *testing.T) {
	f := newBuildFixture(false)

	serviceID := uuid.New()
	branchID := uuid.New()
	existingID := uuid.New()
	unit := &domain.Config{ID: uuid.New()}

	f.serviceRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Service")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Service).ID = serviceID
		}).Return(nil)
	f.branchRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Branch")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Branch).ID = branchID
		}).Return(nil)
	// the iteration predates the hook with no image recorded
	f.iterationRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Iteration")).
		Run(func(args mock.Arguments) {
			it := args.Get(1).(*domain.Iteration)
			it.ID = existingID
			it.ImageName = ""
		}).Return(nil)
	f.iterationRepo.On("SetImageName", mock.Anything, existingID, "img-1").Return(nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branchID).Return(nil, domain.ErrConfigNotFound)
	f.configRepo.On("EnsureEmpty", mock.Anything).Return(unit, nil)

	result, err := f.svc.HandleBuild(context.Background(), "s", "b", "", "c", "img-1")
	assert.NoError(t, err)
	assert.Equal(t, "img-1", result.Iteration.ImageName)
	f.iterationRepo.AssertCalled(t, "SetImageName", mock.Anything, existingID, "img-1")
}

func TestBuildService_HandleBuild_KeepsExistingImageName(t *testing.T) {
	f := newBuildFixture(false)

	serviceID := uuid.New()
	branchID := uuid.New()
	unit := &domain.Config{ID: uuid.New()}

	f.serviceRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Service")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Service).ID = serviceID
		}).Return(nil)
	f.branchRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Branch")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Branch).ID = branchID
		}).Return(nil)
	f.iterationRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Iteration")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Iteration).ImageName = "original-img"
		}).Return(nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branchID).Return(nil, domain.ErrConfigNotFound)
	f.configRepo.On("EnsureEmpty", mock.Anything).Return(unit, nil)

	result, err := f.svc.HandleBuild(context.Background(), "s", "b", "", "c", "different-img")
	assert.NoError(t, err)
	// first write wins
	assert.Equal(t, "original-img", result.Iteration.ImageName)
	f.iterationRepo.AssertNotCalled(t, "SetImageName", mock.Anything, mock.Anything, mock.Anything)
}

func TestBuildService_HandleBuild_DispatchFailureDoesNotFailHook(t *testing.T) {
	f := newBuildFixture(true)

	serviceID := uuid.New()
	branchID := uuid.New()
	unit := &domain.Config{ID: uuid.New()}

	f.stubEnsures(serviceID, branchID)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branchID).Return(nil, domain.ErrConfigNotFound)
	f.configRepo.On("EnsureEmpty", mock.Anything).Return(unit, nil)
	f.runner.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.DeployEvent")).
		Return(errors.New("broker unreachable"))

	result, err := f.svc.HandleBuild(context.Background(), "s", "b", "", "c", "i")
	assert.NoError(t, err)
	assert.False(t, result.Dispatched)
	assert.NotNil(t, result.Release)
}

func TestBuildService_HandleBuild_Validation(t *testing.T) {
	f := newBuildFixture(false)

	_, err := f.svc.HandleBuild(context.Background(), "", "b", "", "c", "i")
	assert.ErrorIs(t, err, domain.ErrInvalidServiceName)
	_, err = f.svc.HandleBuild(context.Background(), "s", "", "", "c", "i")
	assert.ErrorIs(t, err, domain.ErrInvalidBranchName)
	_, err = f.svc.HandleBuild(context.Background(), "s", "b", "", "", "i")
	assert.ErrorIs(t, err, domain.ErrInvalidCommitHash)
	_, err = f.svc.HandleBuild(context.Background(), "s", "b", "", "c", "")
	assert.ErrorIs(t, err, domain.ErrInvalidImageName)
}

func TestBuildService_HandleImageBuilt(t *testing.T) {
	f := newBuildFixture(true)

	serviceID := uuid.New()
	branch := &domain.Branch{ID: uuid.New(), ServiceID: serviceID, Name: "b"}
	iteration := &domain.Iteration{ID: uuid.New(), BranchID: branch.ID, CommitHash: "mock-commit-hash"}
	cfg := &domain.Config{ID: uuid.New()}
	pipelines := []*domain.Pipeline{
		{ID: uuid.New(), ServiceID: serviceID, Name: "qa", Automatic: true},
		{ID: uuid.New(), ServiceID: serviceID, Name: "staging", Automatic: true},
	}

	f.iterationRepo.On("GetByCommitHash", mock.Anything, "mock-commit-hash").Return(iteration, nil)
	f.iterationRepo.On("SetImageName", mock.Anything, iteration.ID, "mock-image-name").Return(nil)
	f.branchRepo.On("GetByID", mock.Anything, branch.ID).Return(branch, nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(cfg, nil)
	f.pipelineRepo.On("ListAutomaticByService", mock.Anything, serviceID).Return(pipelines, nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
	f.runner.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.DeployEvent")).Return(nil)

	result, err := f.svc.HandleImageBuilt(context.Background(), "mock-commit-hash", "mock-image-name")
	assert.NoError(t, err)
	assert.Equal(t, "mock-image-name", result.Iteration.ImageName)
	assert.Len(t, result.Releases, 2)
	assert.Equal(t, 2, result.Dispatched)

	// one release per automatic pipeline, each bound to its pipeline
	for i, release := range result.Releases {
		if assert.NotNil(t, release.PipelineID) {
			assert.Equal(t, pipelines[i].ID, *release.PipelineID)
		}
		assert.Equal(t, cfg.ID, release.ConfigID)
	}
	f.runner.AssertNumberOfCalls(t, "Dispatch", 2)
}

func TestBuildService_HandleImageBuilt_ReleasesInEveryAutomaticPipeline(t *testing.T) {
	f := newBuildFixture(true)

	serviceID := uuid.New()
	branch := &domain.Branch{ID: uuid.New(), ServiceID: serviceID, Name: "b"}
	iteration := &domain.Iteration{ID: uuid.New(), BranchID: branch.ID, CommitHash: "c"}
	cfg := &domain.Config{ID: uuid.New()}

	pipelines := make([]*domain.Pipeline, 0, 150)
	for i := 0; i < 150; i++ {
		pipelines = append(pipelines, &domain.Pipeline{
			ID:        uuid.New(),
			ServiceID: serviceID,
			Name:      fmt.Sprintf("p-%d", i),
			Automatic: true,
		})
	}

	f.iterationRepo.On("GetByCommitHash", mock.Anything, "c").Return(iteration, nil)
	f.iterationRepo.On("SetImageName", mock.Anything, iteration.ID, "i").Return(nil)
	f.branchRepo.On("GetByID", mock.Anything, branch.ID).Return(branch, nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(cfg, nil)
	f.pipelineRepo.On("ListAutomaticByService", mock.Anything, serviceID).Return(pipelines, nil)
	f.releaseRepo.On("Ensure", mock.Anything, mock.AnythingOfType("*domain.Release")).Return(nil)
	f.runner.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.DeployEvent")).Return(nil)

	result, err := f.svc.HandleImageBuilt(context.Background(), "c", "i")
	assert.NoError(t, err)
	assert.Len(t, result.Releases, 150)
	assert.Equal(t, 150, result.Dispatched)
	f.runner.AssertNumberOfCalls(t, "Dispatch", 150)
}

func TestBuildService_HandleImageBuilt_NoAutomaticPipelines(t *testing.T) {
	f := newBuildFixture(true)

	branch := &domain.Branch{ID: uuid.New(), ServiceID: uuid.New(), Name: "b"}
	iteration := &domain.Iteration{ID: uuid.New(), BranchID: branch.ID, CommitHash: "c"}
	cfg := &domain.Config{ID: uuid.New()}

	f.iterationRepo.On("GetByCommitHash", mock.Anything, "c").Return(iteration, nil)
	f.iterationRepo.On("SetImageName", mock.Anything, iteration.ID, "i").Return(nil)
	f.branchRepo.On("GetByID", mock.Anything, branch.ID).Return(branch, nil)
	f.configRepo.On("LatestReleasedOnBranch", mock.Anything, branch.ID).Return(cfg, nil)
	f.pipelineRepo.On("ListAutomaticByService", mock.Anything, branch.ServiceID).
		Return([]*domain.Pipeline{}, nil)

	result, err := f.svc.HandleImageBuilt(context.Background(), "c", "i")
	assert.NoError(t, err)
	assert.Empty(t, result.Releases)
	f.runner.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestBuildService_HandleImageBuilt_UnknownCommit(t *testing.T) {
	f := newBuildFixture(false)

	f.iterationRepo.On("GetByCommitHash", mock.Anything, "nope").Return(nil, domain.ErrIterationNotFound)

	_, err := f.svc.HandleImageBuilt(context.Background(), "nope", "i")
	assert.ErrorIs(t, err, domain.ErrIterationNotFound)
}
