package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

type featureRepo struct {
	pool *pgxpool.Pool
}

func NewFeatureRepository(pool *pgxpool.Pool) ports.FeatureRepository {
	return &featureRepo{pool: pool}
}

func (r *featureRepo) Ensure(ctx context.Context, feature *domain.Feature) error {
	query := `
		INSERT INTO feature (feature_id, feature_name, service_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (service_id, feature_name) DO NOTHING
		RETURNING feature_id, created_at
	`
	err := r.pool.QueryRow(ctx, query, feature.ID, feature.Name, feature.ServiceID).
		Scan(&feature.ID, &feature.CreatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ensure feature: %w", err)
	}

	query = `
		SELECT feature_id, feature_name, service_id, created_at
		  FROM feature
		 WHERE service_id = $1 AND feature_name = $2
	`
	err = r.pool.QueryRow(ctx, query, feature.ServiceID, feature.Name).
		Scan(&feature.ID, &feature.Name, &feature.ServiceID, &feature.CreatedAt)
	if err != nil {
		return fmt.Errorf("load existing feature: %w", err)
	}
	return nil
}

func (r *featureRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feature, error) {
	query := `
		SELECT feature_id, feature_name, service_id, created_at
		  FROM feature
		 WHERE feature_id = $1
	`
	feature := &domain.Feature{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&feature.ID, &feature.Name, &feature.ServiceID, &feature.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeatureNotFound
		}
		return nil, fmt.Errorf("get feature by id: %w", err)
	}
	return feature, nil
}

func (r *featureRepo) ListByService(ctx context.Context, serviceID uuid.UUID, filter ports.ListFilter) ([]*domain.Feature, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feature WHERE service_id = $1`, serviceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count features: %w", err)
	}

	query := `
		SELECT feature_id, feature_name, service_id, created_at
		  FROM feature
		 WHERE service_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, serviceID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()

	var features []*domain.Feature
	for rows.Next() {
		feature := &domain.Feature{}
		if err := rows.Scan(&feature.ID, &feature.Name, &feature.ServiceID, &feature.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan feature row: %w", err)
		}
		features = append(features, feature)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate feature rows: %w", err)
	}

	return features, total, nil
}
