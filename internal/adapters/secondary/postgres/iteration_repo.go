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

type iterationRepo struct {
	pool *pgxpool.Pool
}

func NewIterationRepository(pool *pgxpool.Pool) ports.IterationRepository {
	return &iterationRepo{pool: pool}
}

// Ensure inserts the iteration or loads the stored one for the same
// (branch, commit) pair. On conflict the stored image name wins: repeated
// saves with a different image do not overwrite.
func (r *iterationRepo) Ensure(ctx context.Context, iteration *domain.Iteration) error {
	query := `
		INSERT INTO iteration (iteration_id, commit_hash, branch_id, image_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (branch_id, commit_hash) DO NOTHING
		RETURNING iteration_id, image_name, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		iteration.ID, iteration.CommitHash, iteration.BranchID, iteration.ImageName,
	).Scan(&iteration.ID, &iteration.ImageName, &iteration.CreatedAt, &iteration.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ensure iteration: %w", err)
	}

	query = `
		SELECT iteration_id, commit_hash, branch_id, image_name, created_at, updated_at
		  FROM iteration
		 WHERE branch_id = $1 AND commit_hash = $2
	`
	err = r.pool.QueryRow(ctx, query, iteration.BranchID, iteration.CommitHash).
		Scan(&iteration.ID, &iteration.CommitHash, &iteration.BranchID,
			&iteration.ImageName, &iteration.CreatedAt, &iteration.UpdatedAt)
	if err != nil {
		return fmt.Errorf("load existing iteration: %w", err)
	}
	return nil
}

func (r *iterationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Iteration, error) {
	query := `
		SELECT iteration_id, commit_hash, branch_id, image_name, created_at, updated_at
		  FROM iteration
		 WHERE iteration_id = $1
	`
	iteration := &domain.Iteration{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&iteration.ID, &iteration.CommitHash, &iteration.BranchID,
			&iteration.ImageName, &iteration.CreatedAt, &iteration.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIterationNotFound
		}
		return nil, fmt.Errorf("get iteration by id: %w", err)
	}
	return iteration, nil
}

func (r *iterationRepo) GetByCommitHash(ctx context.Context, commitHash string) (*domain.Iteration, error) {
	query := `
		SELECT iteration_id, commit_hash, branch_id, image_name, created_at, updated_at
		  FROM iteration
		 WHERE commit_hash = $1
		 ORDER BY created_at DESC
		 LIMIT 1
	`
	iteration := &domain.Iteration{}
	err := r.pool.QueryRow(ctx, query, commitHash).
		Scan(&iteration.ID, &iteration.CommitHash, &iteration.BranchID,
			&iteration.ImageName, &iteration.CreatedAt, &iteration.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIterationNotFound
		}
		return nil, fmt.Errorf("get iteration by commit hash: %w", err)
	}
	return iteration, nil
}

func (r *iterationRepo) SetImageName(ctx context.Context, id uuid.UUID, imageName string) error {
	query := `
		UPDATE iteration
		   SET image_name = $1, updated_at = now()
		 WHERE iteration_id = $2
	`
	result, err := r.pool.Exec(ctx, query, imageName, id)
	if err != nil {
		return fmt.Errorf("set iteration image name: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrIterationNotFound
	}
	return nil
}

func (r *iterationRepo) ListByBranch(ctx context.Context, branchID uuid.UUID, filter ports.ListFilter) ([]*domain.Iteration, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM iteration WHERE branch_id = $1`, branchID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count iterations: %w", err)
	}

	query := `
		SELECT iteration_id, commit_hash, branch_id, image_name, created_at, updated_at
		  FROM iteration
		 WHERE branch_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, branchID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list iterations: %w", err)
	}
	defer rows.Close()

	var iterations []*domain.Iteration
	for rows.Next() {
		iteration := &domain.Iteration{}
		if err := rows.Scan(&iteration.ID, &iteration.CommitHash, &iteration.BranchID,
			&iteration.ImageName, &iteration.CreatedAt, &iteration.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan iteration row: %w", err)
		}
		iterations = append(iterations, iteration)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate iteration rows: %w", err)
	}

	return iterations, total, nil
}
