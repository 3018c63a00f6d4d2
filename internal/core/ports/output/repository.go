package ports

import (
	"context"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
)

type ListFilter struct {
	Limit  int
	Offset int
}

type ReleaseFilter struct {
	IterationID uuid.UUID
	Limit       int
	Offset      int
}

// ServiceRepository persists services. Ensure is an idempotent
// insert-or-load keyed by the service name: on conflict the stored row is
// loaded into the argument and the insert is discarded.
type ServiceRepository interface {
	Ensure(ctx context.Context, svc *domain.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	GetByName(ctx context.Context, name string) (*domain.Service, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Service, int, error)
}

type FeatureRepository interface {
	Ensure(ctx context.Context, feature *domain.Feature) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, filter ListFilter) ([]*domain.Feature, int, error)
}

type BranchRepository interface {
	Ensure(ctx context.Context, branch *domain.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, filter ListFilter) ([]*domain.Branch, int, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type IterationRepository interface {
	Ensure(ctx context.Context, iteration *domain.Iteration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Iteration, error)
	// GetByCommitHash returns the most recent iteration recorded for the
	// commit, regardless of branch.
	GetByCommitHash(ctx context.Context, commitHash string) (*domain.Iteration, error)
	SetImageName(ctx context.Context, id uuid.UUID, imageName string) error
	ListByBranch(ctx context.Context, branchID uuid.UUID, filter ListFilter) ([]*domain.Iteration, int, error)
}

// ConfigRepository persists configs and answers the release-history
// queries the config finder is built on.
type ConfigRepository interface {
	Create(ctx context.Context, cfg *domain.Config) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Config, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Config, int, error)
	// EnsureEmpty returns the unit config, creating it if necessary.
	EnsureEmpty(ctx context.Context) (*domain.Config, error)
	// LatestReleasedOnBranch returns the config of the most recent release
	// of any iteration on the branch, or ErrConfigNotFound.
	LatestReleasedOnBranch(ctx context.Context, branchID uuid.UUID) (*domain.Config, error)
	// LatestReleasedOnCommit returns the config of the most recent release
	// of any iteration of the service with the given commit hash, or
	// ErrConfigNotFound.
	LatestReleasedOnCommit(ctx context.Context, serviceID uuid.UUID, commitHash string) (*domain.Config, error)
}

type PipelineRepository interface {
	Create(ctx context.Context, pipeline *domain.Pipeline) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pipeline, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, automaticOnly bool, filter ListFilter) ([]*domain.Pipeline, int, error)
	// ListAutomaticByService returns every automatic pipeline of the
	// service, unpaginated. The build hooks cut a release in each one,
	// so this must never truncate.
	ListAutomaticByService(ctx context.Context, serviceID uuid.UUID) ([]*domain.Pipeline, error)
	Update(ctx context.Context, pipeline *domain.Pipeline) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReleaseRepository persists releases. Ensure is idempotent per
// (iteration, pipeline): a repeated ensure loads the stored release.
type ReleaseRepository interface {
	Ensure(ctx context.Context, release *domain.Release) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Release, error)
	List(ctx context.Context, filter ReleaseFilter) ([]*domain.Release, int, error)
}
