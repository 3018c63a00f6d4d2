package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

// MockServiceRepo is a mock of ServiceRepository.
type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) Ensure(ctx context.Context, svc *domain.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepo) GetByName(ctx context.Context, name string) (*domain.Service, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Service, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Service), args.Int(1), args.Error(2)
}

// MockFeatureRepo is a mock of FeatureRepository.
type MockFeatureRepo struct {
	mock.Mock
}

func (m *MockFeatureRepo) Ensure(ctx context.Context, feature *domain.Feature) error {
	args := m.Called(ctx, feature)
	return args.Error(0)
}

func (m *MockFeatureRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feature), args.Error(1)
}

func (m *MockFeatureRepo) ListByService(ctx context.Context, serviceID uuid.UUID, filter ports.ListFilter) ([]*domain.Feature, int, error) {
	args := m.Called(ctx, serviceID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Feature), args.Int(1), args.Error(2)
}

// MockBranchRepo is a mock of BranchRepository.
type MockBranchRepo struct {
	mock.Mock
}

func (m *MockBranchRepo) Ensure(ctx context.Context, branch *domain.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Branch), args.Error(1)
}

func (m *MockBranchRepo) ListByService(ctx context.Context, serviceID uuid.UUID, filter ports.ListFilter) ([]*domain.Branch, int, error) {
	args := m.Called(ctx, serviceID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Branch), args.Int(1), args.Error(2)
}

func (m *MockBranchRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIterationRepo is a mock of IterationRepository.
type MockIterationRepo struct {
	mock.Mock
}

func (m *MockIterationRepo) Ensure(ctx context.Context, iteration *domain.Iteration) error {
	args := m.Called(ctx, iteration)
	return args.Error(0)
}

func (m *MockIterationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Iteration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Iteration), args.Error(1)
}

func (m *MockIterationRepo) GetByCommitHash(ctx context.Context, commitHash string) (*domain.Iteration, error) {
	args := m.Called(ctx, commitHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Iteration), args.Error(1)
}

func (m *MockIterationRepo) SetImageName(ctx context.Context, id uuid.UUID, imageName string) error {
	args := m.Called(ctx, id, imageName)
	return args.Error(0)
}

func (m *MockIterationRepo) ListByBranch(ctx context.Context, branchID uuid.UUID, filter ports.ListFilter) ([]*domain.Iteration, int, error) {
	args := m.Called(ctx, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Iteration), args.Int(1), args.Error(2)
}

// MockConfigRepo is a mock of ConfigRepository.
type MockConfigRepo struct {
	mock.Mock
}

func (m *MockConfigRepo) Create(ctx context.Context, cfg *domain.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Config, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Config), args.Error(1)
}

func (m *MockConfigRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Config, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Config), args.Int(1), args.Error(2)
}

func (m *MockConfigRepo) EnsureEmpty(ctx context.Context) (*domain.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Config), args.Error(1)
}

func (m *MockConfigRepo) LatestReleasedOnBranch(ctx context.Context, branchID uuid.UUID) (*domain.Config, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Config), args.Error(1)
}

func (m *MockConfigRepo) LatestReleasedOnCommit(ctx context.Context, serviceID uuid.UUID, commitHash string) (*domain.Config, error) {
	args := m.Called(ctx, serviceID, commitHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Config), args.Error(1)
}

// MockPipelineRepo is a mock of PipelineRepository.
type MockPipelineRepo struct {
	mock.Mock
}

func (m *MockPipelineRepo) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	args := m.Called(ctx, pipeline)
	return args.Error(0)
}

func (m *MockPipelineRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pipeline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pipeline), args.Error(1)
}

func (m *MockPipelineRepo) ListByService(ctx context.Context, serviceID uuid.UUID, automaticOnly bool, filter ports.ListFilter) ([]*domain.Pipeline, int, error) {
	args := m.Called(ctx, serviceID, automaticOnly, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Pipeline), args.Int(1), args.Error(2)
}

func (m *MockPipelineRepo) ListAutomaticByService(ctx context.Context, serviceID uuid.UUID) ([]*domain.Pipeline, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pipeline), args.Error(1)
}

func (m *MockPipelineRepo) Update(ctx context.Context, pipeline *domain.Pipeline) error {
	args := m.Called(ctx, pipeline)
	return args.Error(0)
}

func (m *MockPipelineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReleaseRepo is a mock of ReleaseRepository.
type MockReleaseRepo struct {
	mock.Mock
}

func (m *MockReleaseRepo) Ensure(ctx context.Context, release *domain.Release) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *MockReleaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Release, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Release), args.Error(1)
}

func (m *MockReleaseRepo) List(ctx context.Context, filter ports.ReleaseFilter) ([]*domain.Release, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Release), args.Int(1), args.Error(2)
}

// MockDeployRunner is a mock of DeployRunner.
type MockDeployRunner struct {
	mock.Mock
}

func (m *MockDeployRunner) Dispatch(ctx context.Context, event domain.DeployEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDeployRunner) Close() error {
	args := m.Called()
	return args.Error(0)
}
