package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

type PipelineService struct {
	pipelineRepo ports.PipelineRepository
	serviceRepo  ports.ServiceRepository
}

func NewPipelineService(pipelineRepo ports.PipelineRepository, serviceRepo ports.ServiceRepository) *PipelineService {
	return &PipelineService{pipelineRepo: pipelineRepo, serviceRepo: serviceRepo}
}

func (s *PipelineService) Create(ctx context.Context, serviceID uuid.UUID, name string, automatic bool) (*domain.Pipeline, error) {
	if name == "" {
		return nil, domain.ErrInvalidPipelineName
	}
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}

	pipeline := &domain.Pipeline{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		ServiceID: serviceID,
		Name:      name,
		Automatic: automatic,
	}
	if err := s.pipelineRepo.Create(ctx, pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}

func (s *PipelineService) Get(ctx context.Context, id uuid.UUID) (*domain.Pipeline, error) {
	return s.pipelineRepo.GetByID(ctx, id)
}

func (s *PipelineService) ListByService(ctx context.Context, serviceID uuid.UUID, automaticOnly bool, filter ports.ListFilter) ([]*domain.Pipeline, int, error) {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return nil, 0, err
	}
	return s.pipelineRepo.ListByService(ctx, serviceID, automaticOnly, clampFilter(filter))
}

func (s *PipelineService) Update(ctx context.Context, id uuid.UUID, name *string, automatic *bool) (*domain.Pipeline, error) {
	pipeline, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, domain.ErrInvalidPipelineName
		}
		pipeline.Name = *name
	}
	if automatic != nil {
		pipeline.Automatic = *automatic
	}

	if err := s.pipelineRepo.Update(ctx, pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}

func (s *PipelineService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pipelineRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.pipelineRepo.Delete(ctx, id)
}
