package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"herd-api/internal/core/domain"
	ports "herd-api/internal/core/ports/output"
)

type pipelineRepo struct {
	pool *pgxpool.Pool
}

func NewPipelineRepository(pool *pgxpool.Pool) ports.PipelineRepository {
	return &pipelineRepo{pool: pool}
}

func (r *pipelineRepo) Create(ctx context.Context, pipeline *domain.Pipeline) error {
	query := `
		INSERT INTO pipeline (pipeline_id, pipeline_name, service_id, automatic)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		pipeline.ID, pipeline.Name, pipeline.ServiceID, pipeline.Automatic,
	).Scan(&pipeline.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrPipelineNameConflict
		}
		return fmt.Errorf("create pipeline: %w", err)
	}
	return nil
}

func (r *pipelineRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pipeline, error) {
	query := `
		SELECT pipeline_id, pipeline_name, service_id, automatic, created_at
		  FROM pipeline
		 WHERE pipeline_id = $1
	`
	pipeline := &domain.Pipeline{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&pipeline.ID, &pipeline.Name, &pipeline.ServiceID, &pipeline.Automatic, &pipeline.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPipelineNotFound
		}
		return nil, fmt.Errorf("get pipeline by id: %w", err)
	}
	return pipeline, nil
}

func (r *pipelineRepo) ListByService(ctx context.Context, serviceID uuid.UUID, automaticOnly bool, filter ports.ListFilter) ([]*domain.Pipeline, int, error) {
	whereClause := "service_id = $1"
	if automaticOnly {
		whereClause += " AND automatic"
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pipeline WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, serviceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pipelines: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT pipeline_id, pipeline_name, service_id, automatic, created_at
		  FROM pipeline
		 WHERE %s
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3
	`, whereClause)
	rows, err := r.pool.Query(ctx, query, serviceID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list pipelines: %w", err)
	}
	defer rows.Close()

	var pipelines []*domain.Pipeline
	for rows.Next() {
		pipeline := &domain.Pipeline{}
		if err := rows.Scan(&pipeline.ID, &pipeline.Name, &pipeline.ServiceID,
			&pipeline.Automatic, &pipeline.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan pipeline row: %w", err)
		}
		pipelines = append(pipelines, pipeline)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pipeline rows: %w", err)
	}

	return pipelines, total, nil
}

func (r *pipelineRepo) ListAutomaticByService(ctx context.Context, serviceID uuid.UUID) ([]*domain.Pipeline, error) {
	query := `
		SELECT pipeline_id, pipeline_name, service_id, automatic, created_at
		  FROM pipeline
		 WHERE service_id = $1 AND automatic
		 ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list automatic pipelines: %w", err)
	}
	defer rows.Close()

	var pipelines []*domain.Pipeline
	for rows.Next() {
		pipeline := &domain.Pipeline{}
		if err := rows.Scan(&pipeline.ID, &pipeline.Name, &pipeline.ServiceID,
			&pipeline.Automatic, &pipeline.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pipeline row: %w", err)
		}
		pipelines = append(pipelines, pipeline)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pipeline rows: %w", err)
	}

	return pipelines, nil
}

func (r *pipelineRepo) Update(ctx context.Context, pipeline *domain.Pipeline) error {
	query := `
		UPDATE pipeline
		   SET pipeline_name = $1, automatic = $2
		 WHERE pipeline_id = $3
	`
	result, err := r.pool.Exec(ctx, query, pipeline.Name, pipeline.Automatic, pipeline.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrPipelineNameConflict
		}
		return fmt.Errorf("update pipeline: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPipelineNotFound
	}
	return nil
}

func (r *pipelineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM pipeline WHERE pipeline_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPipelineNotFound
	}
	return nil
}
