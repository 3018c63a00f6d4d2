package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

type ConfigService struct {
	configRepo ports.ConfigRepository
}

func NewConfigService(configRepo ports.ConfigRepository) *ConfigService {
	return &ConfigService{configRepo: configRepo}
}

// Create stores a config. The empty string is allowed: it resolves to the
// shared unit config instead of creating a duplicate.
func (s *ConfigService) Create(ctx context.Context, keyValuePairs string) (*domain.Config, error) {
	if keyValuePairs == "" {
		return s.configRepo.EnsureEmpty(ctx)
	}
	cfg := &domain.Config{
		ID:            uuid.New(),
		CreatedAt:     time.Now(),
		KeyValuePairs: keyValuePairs,
	}
	if err := s.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigService) Get(ctx context.Context, id uuid.UUID) (*domain.Config, error) {
	return s.configRepo.GetByID(ctx, id)
}

func (s *ConfigService) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Config, int, error) {
	return s.configRepo.List(ctx, clampFilter(filter))
}
