package dto

import "github.com/google/uuid"

type BranchCommitRequest struct {
	RepoName    string `json:"repo_name" binding:"required,max=200"`
	FeatureName string `json:"feature_name" binding:"required,max=200"`
	BranchName  string `json:"branch_name" binding:"required,max=200"`
	CommitHash  string `json:"commit_hash" binding:"required,max=99"`
}

type BranchCommitResponse struct {
	IterationID uuid.UUID `json:"iteration_id"`
}

type BuildRequest struct {
	ServiceName         string `json:"service_name" binding:"required,max=200"`
	BranchName          string `json:"branch_name" binding:"required,max=200"`
	MergeBaseCommitHash string `json:"merge_base_commit_hash" binding:"max=99"`
	CommitHash          string `json:"commit_hash" binding:"required,max=99"`
	ImageName           string `json:"image_name" binding:"required,max=200"`
}

type BuildResponse struct {
	IterationID   uuid.UUID `json:"iteration_id"`
	ReleaseID     uuid.UUID `json:"release_id"`
	ConfigID      uuid.UUID `json:"config_id"`
	KeyValuePairs string    `json:"key_value_pairs"`
	Dispatched    bool      `json:"dispatched"`
}

type ImageBuiltRequest struct {
	CommitHash string `json:"commit_hash" binding:"required,max=99"`
	ImageName  string `json:"image_name" binding:"required,max=200"`
}

type ImageBuiltResponse struct {
	IterationID uuid.UUID   `json:"iteration_id"`
	ReleaseIDs  []uuid.UUID `json:"release_ids"`
	Dispatched  int         `json:"dispatched"`
}
