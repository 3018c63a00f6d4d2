package dto

import (
	"time"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
)

type ServiceResponse struct {
	ID        uuid.UUID `json:"service_id"`
	CreatedAt string    `json:"created_at"`
	Name      string    `json:"service_name"`
}

func ToServiceResponse(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		Name:      s.Name,
	}
}

type FeatureResponse struct {
	ID        uuid.UUID `json:"feature_id"`
	CreatedAt string    `json:"created_at"`
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"feature_name"`
}

func ToFeatureResponse(f *domain.Feature) FeatureResponse {
	return FeatureResponse{
		ID:        f.ID,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
		ServiceID: f.ServiceID,
		Name:      f.Name,
	}
}

type BranchResponse struct {
	ID                  uuid.UUID  `json:"branch_id"`
	CreatedAt           string     `json:"created_at"`
	ServiceID           uuid.UUID  `json:"service_id"`
	FeatureID           *uuid.UUID `json:"feature_id"`
	Name                string     `json:"branch_name"`
	MergeBaseCommitHash string     `json:"merge_base_commit_hash"`
	Deleted             bool       `json:"deleted"`
}

func ToBranchResponse(b *domain.Branch) BranchResponse {
	return BranchResponse{
		ID:                  b.ID,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
		ServiceID:           b.ServiceID,
		FeatureID:           b.FeatureID,
		Name:                b.Name,
		MergeBaseCommitHash: b.MergeBaseCommitHash,
		Deleted:             b.DeletedAt != nil,
	}
}

type IterationResponse struct {
	ID         uuid.UUID `json:"iteration_id"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
	BranchID   uuid.UUID `json:"branch_id"`
	CommitHash string    `json:"commit_hash"`
	ImageName  string    `json:"image_name"`
}

func ToIterationResponse(i *domain.Iteration) IterationResponse {
	return IterationResponse{
		ID:         i.ID,
		CreatedAt:  i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  i.UpdatedAt.Format(time.RFC3339),
		BranchID:   i.BranchID,
		CommitHash: i.CommitHash,
		ImageName:  i.ImageName,
	}
}

type UpdateIterationRequest struct {
	ImageName string `json:"image_name" binding:"required,max=200"`
}

type CreateConfigRequest struct {
	KeyValuePairs string `json:"key_value_pairs"`
}

type ConfigResponse struct {
	ID            uuid.UUID `json:"config_id"`
	CreatedAt     string    `json:"created_at"`
	KeyValuePairs string    `json:"key_value_pairs"`
}

func ToConfigResponse(c *domain.Config) ConfigResponse {
	return ConfigResponse{
		ID:            c.ID,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		KeyValuePairs: c.KeyValuePairs,
	}
}

type CreatePipelineRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Name      string    `json:"pipeline_name" binding:"required,max=200"`
	Automatic *bool     `json:"automatic"`
}

type UpdatePipelineRequest struct {
	Name      *string `json:"pipeline_name"`
	Automatic *bool   `json:"automatic"`
}

type PipelineResponse struct {
	ID        uuid.UUID `json:"pipeline_id"`
	CreatedAt string    `json:"created_at"`
	ServiceID uuid.UUID `json:"service_id"`
	Name      string    `json:"pipeline_name"`
	Automatic bool      `json:"automatic"`
}

func ToPipelineResponse(p *domain.Pipeline) PipelineResponse {
	return PipelineResponse{
		ID:        p.ID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		ServiceID: p.ServiceID,
		Name:      p.Name,
		Automatic: p.Automatic,
	}
}

type ReleaseResponse struct {
	ID          uuid.UUID  `json:"release_id"`
	CreatedAt   string     `json:"created_at"`
	IterationID uuid.UUID  `json:"iteration_id"`
	ConfigID    uuid.UUID  `json:"config_id"`
	PipelineID  *uuid.UUID `json:"pipeline_id"`
}

func ToReleaseResponse(r *domain.Release) ReleaseResponse {
	return ReleaseResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		IterationID: r.IterationID,
		ConfigID:    r.ConfigID,
		PipelineID:  r.PipelineID,
	}
}

type ListResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	PageSize   int `json:"page_size"`
	NextOffset int `json:"next_offset"`
}

func ToListResponse[D any, T any](items []*D, total, limit, offset int, conv func(*D) T) ListResponse[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return ListResponse[T]{
		Items:      out,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(out),
	}
}
