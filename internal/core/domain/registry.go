package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service is a deployable repository tracked by the registry.
type Service struct {
	ID        uuid.UUID `json:"service_id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"service_name"`
}

// Feature groups branches of a service under a named feature.
type Feature struct {
	ID        uuid.UUID `json:"feature_id"`
	CreatedAt time.Time `json:"created_at"`
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"feature_name"`
}

// Branch is a VCS branch of a service. MergeBaseCommitHash may be empty
// for branches reported through the feature hook. Branches are soft
// deleted; a deleted branch frees its natural key for reuse.
type Branch struct {
	ID                  uuid.UUID  `json:"branch_id"`
	CreatedAt           time.Time  `json:"created_at"`
	ServiceID           uuid.UUID  `json:"service_id"`
	FeatureID           *uuid.UUID `json:"feature_id"`
	Name                string     `json:"branch_name"`
	MergeBaseCommitHash string     `json:"merge_base_commit_hash"`
	DeletedAt           *time.Time `json:"deleted_at"`
}

// Iteration is a commit on a branch, annotated with the image built from
// it once a build hook arrives. The (branch, commit) pair is unique; the
// image name keeps its first write.
type Iteration struct {
	ID         uuid.UUID `json:"iteration_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BranchID   uuid.UUID `json:"branch_id"`
	CommitHash string    `json:"commit_hash"`
	ImageName  string    `json:"image_name"`
}

// Config holds the key/value pairs a release ships with, stored as an
// opaque hstore-literal string. The empty string is the unit config.
type Config struct {
	ID            uuid.UUID `json:"config_id"`
	CreatedAt     time.Time `json:"created_at"`
	KeyValuePairs string    `json:"key_value_pairs"`
}

// Pipeline is a named release pipeline of a service. Automatic pipelines
// receive a release for every image built on the service.
type Pipeline struct {
	ID        uuid.UUID `json:"pipeline_id"`
	CreatedAt time.Time `json:"created_at"`
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"pipeline_name"`
	Automatic bool      `json:"automatic"`
}

// Release pairs an iteration with the config it ships with, optionally
// bound to a pipeline.
type Release struct {
	ID          uuid.UUID  `json:"release_id"`
	CreatedAt   time.Time  `json:"created_at"`
	IterationID uuid.UUID  `json:"iteration_id"`
	ConfigID    uuid.UUID  `json:"config_id"`
	PipelineID  *uuid.UUID `json:"pipeline_id"`
}

// Deploy actions understood by the runner consuming deploy events.
const (
	DeployActionUpdate = "UPDATE"
	DeployActionDelete = "DELETE"
)

// DeployEvent is handed to the deploy runner for every release created by
// a build hook.
type DeployEvent struct {
	ReleaseID uuid.UUID `json:"release_id"`
	Action    string    `json:"action"`
}
