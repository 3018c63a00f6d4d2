package domain

import "errors"

// Not found errors
var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrFeatureNotFound   = errors.New("feature not found")
	ErrBranchNotFound    = errors.New("branch not found")
	ErrIterationNotFound = errors.New("iteration not found")
	ErrConfigNotFound    = errors.New("config not found")
	ErrPipelineNotFound  = errors.New("pipeline not found")
	ErrReleaseNotFound   = errors.New("release not found")
)

// Validation errors
var (
	ErrInvalidServiceName  = errors.New("service name is required")
	ErrInvalidFeatureName  = errors.New("feature name is required")
	ErrInvalidBranchName   = errors.New("branch name is required")
	ErrInvalidCommitHash   = errors.New("commit hash is required")
	ErrInvalidImageName    = errors.New("image name is required")
	ErrInvalidPipelineName = errors.New("pipeline name is required")
)

// Conflict errors
var (
	ErrPipelineNameConflict = errors.New("pipeline with this name already exists for this service")
)

// Business rule errors
var (
	ErrBranchDeleted = errors.New("branch has been deleted")
)
