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

type serviceRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) ports.ServiceRepository {
	return &serviceRepo{pool: pool}
}

// Ensure inserts the service, or on a name collision loads the stored row
// into svc. Safe under concurrent delivery of the same hook.
func (r *serviceRepo) Ensure(ctx context.Context, svc *domain.Service) error {
	query := `
		INSERT INTO service (service_id, service_name)
		VALUES ($1, $2)
		ON CONFLICT (service_name) DO NOTHING
		RETURNING service_id, created_at
	`
	err := r.pool.QueryRow(ctx, query, svc.ID, svc.Name).Scan(&svc.ID, &svc.CreatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ensure service: %w", err)
	}

	existing, err := r.GetByName(ctx, svc.Name)
	if err != nil {
		return err
	}
	*svc = *existing
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	query := `
		SELECT service_id, service_name, created_at
		  FROM service
		 WHERE service_id = $1
	`
	svc := &domain.Service{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&svc.ID, &svc.Name, &svc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}
	return svc, nil
}

func (r *serviceRepo) GetByName(ctx context.Context, name string) (*domain.Service, error) {
	query := `
		SELECT service_id, service_name, created_at
		  FROM service
		 WHERE service_name = $1
	`
	svc := &domain.Service{}
	err := r.pool.QueryRow(ctx, query, name).Scan(&svc.ID, &svc.Name, &svc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service by name: %w", err)
	}
	return svc, nil
}

func (r *serviceRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Service, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	query := `
		SELECT service_id, service_name, created_at
		  FROM service
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []*domain.Service
	for rows.Next() {
		svc := &domain.Service{}
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate service rows: %w", err)
	}

	return services, total, nil
}
