package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

// BuildService handles the build hooks. Both forms record the image built
// from a commit, create the release(s) with the config the finder picks,
// and hand a deploy event per release to the runner.
type BuildService struct {
	serviceRepo   ports.ServiceRepository
	branchRepo    ports.BranchRepository
	iterationRepo ports.IterationRepository
	pipelineRepo  ports.PipelineRepository
	releaseRepo   ports.ReleaseRepository
	finder        *ConfigFinder
	runner        ports.DeployRunner
}

func NewBuildService(
	serviceRepo ports.ServiceRepository,
	branchRepo ports.BranchRepository,
	iterationRepo ports.IterationRepository,
	pipelineRepo ports.PipelineRepository,
	releaseRepo ports.ReleaseRepository,
	finder *ConfigFinder,
	runner ports.DeployRunner,
) *BuildService {
	return &BuildService{
		serviceRepo:   serviceRepo,
		branchRepo:    branchRepo,
		iterationRepo: iterationRepo,
		pipelineRepo:  pipelineRepo,
		releaseRepo:   releaseRepo,
		finder:        finder,
		runner:        runner,
	}
}

type BuildResult struct {
	Iteration  *domain.Iteration
	Release    *domain.Release
	Config     *domain.Config
	Dispatched bool
}

type ImageBuiltResult struct {
	Iteration  *domain.Iteration
	Releases   []*domain.Release
	Config     *domain.Config
	Dispatched int
}

// HandleBuild is the full-form hook: it carries enough to create the whole
// object graph from scratch, so unknown services and branches are ensured
// on the fly before the release is cut.
func (s *BuildService) HandleBuild(ctx context.Context, serviceName, branchName, mergeBase, commitHash, imageName string) (*BuildResult, error) {
	if serviceName == "" {
		return nil, domain.ErrInvalidServiceName
	}
	if branchName == "" {
		return nil, domain.ErrInvalidBranchName
	}
	if commitHash == "" {
		return nil, domain.ErrInvalidCommitHash
	}
	if imageName == "" {
		return nil, domain.ErrInvalidImageName
	}

	now := time.Now()

	svc := &domain.Service{ID: uuid.New(), CreatedAt: now, Name: serviceName}
	if err := s.serviceRepo.Ensure(ctx, svc); err != nil {
		return nil, err
	}

	branch := &domain.Branch{
		ID:                  uuid.New(),
		CreatedAt:           now,
		ServiceID:           svc.ID,
		Name:                branchName,
		MergeBaseCommitHash: mergeBase,
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
		ImageName:  imageName,
	}
	if err := s.iterationRepo.Ensure(ctx, iteration); err != nil {
		return nil, err
	}
	// The iteration may predate this hook (branch-commit arrived first)
	// with no image recorded yet. Fill it in, but never overwrite: an
	// iteration keeps the first image name it was saved with.
	if iteration.ImageName == "" {
		if err := s.iterationRepo.SetImageName(ctx, iteration.ID, imageName); err != nil {
			return nil, err
		}
		iteration.ImageName = imageName
	}

	cfg, err := s.finder.FindForBranch(ctx, branch)
	if err != nil {
		return nil, err
	}

	release := &domain.Release{
		ID:          uuid.New(),
		CreatedAt:   now,
		IterationID: iteration.ID,
		ConfigID:    cfg.ID,
	}
	if err := s.releaseRepo.Ensure(ctx, release); err != nil {
		return nil, err
	}

	dispatched := s.dispatch(ctx, release.ID)

	return &BuildResult{
		Iteration:  iteration,
		Release:    release,
		Config:     cfg,
		Dispatched: dispatched,
	}, nil
}

// HandleImageBuilt is the legacy hook keyed by commit hash alone. The
// iteration must already exist (the branch-commit hook creates it); the
// image name is recorded and a release is cut in every automatic pipeline
// of the service.
func (s *BuildService) HandleImageBuilt(ctx context.Context, commitHash, imageName string) (*ImageBuiltResult, error) {
	if commitHash == "" {
		return nil, domain.ErrInvalidCommitHash
	}
	if imageName == "" {
		return nil, domain.ErrInvalidImageName
	}

	iteration, err := s.iterationRepo.GetByCommitHash(ctx, commitHash)
	if err != nil {
		return nil, err
	}
	if err := s.iterationRepo.SetImageName(ctx, iteration.ID, imageName); err != nil {
		return nil, err
	}
	iteration.ImageName = imageName

	branch, err := s.branchRepo.GetByID(ctx, iteration.BranchID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.finder.FindForBranch(ctx, branch)
	if err != nil {
		return nil, err
	}

	pipelines, err := s.pipelineRepo.ListAutomaticByService(ctx, branch.ServiceID)
	if err != nil {
		return nil, err
	}

	result := &ImageBuiltResult{Iteration: iteration, Config: cfg}
	for _, p := range pipelines {
		pipelineID := p.ID
		release := &domain.Release{
			ID:          uuid.New(),
			CreatedAt:   time.Now(),
			IterationID: iteration.ID,
			ConfigID:    cfg.ID,
			PipelineID:  &pipelineID,
		}
		if err := s.releaseRepo.Ensure(ctx, release); err != nil {
			return nil, err
		}
		result.Releases = append(result.Releases, release)
		if s.dispatch(ctx, release.ID) {
			result.Dispatched++
		}
	}

	return result, nil
}

// dispatch hands a deploy event to the runner. Dispatch failures never
// fail the hook: the release is already recorded and the caller learns it
// was not dispatched.
func (s *BuildService) dispatch(ctx context.Context, releaseID uuid.UUID) bool {
	if s.runner == nil {
		log.WithField("release_id", releaseID).Debug("deploy dispatch disabled, skipping")
		return false
	}
	event := domain.DeployEvent{ReleaseID: releaseID, Action: domain.DeployActionUpdate}
	if err := s.runner.Dispatch(ctx, event); err != nil {
		log.WithError(err).WithField("release_id", releaseID).Error("dispatch deploy event failed")
		return false
	}
	return true
}
