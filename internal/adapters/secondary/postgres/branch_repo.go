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

type branchRepo struct {
	pool *pgxpool.Pool
}

func NewBranchRepository(pool *pgxpool.Pool) ports.BranchRepository {
	return &branchRepo{pool: pool}
}

func (r *branchRepo) Ensure(ctx context.Context, branch *domain.Branch) error {
	query := `
		INSERT INTO branch (branch_id, branch_name, merge_base_commit_hash, service_id, feature_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (service_id, branch_name, merge_base_commit_hash) WHERE deleted_at IS NULL
		DO NOTHING
		RETURNING branch_id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		branch.ID, branch.Name, branch.MergeBaseCommitHash, branch.ServiceID, branch.FeatureID,
	).Scan(&branch.ID, &branch.CreatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ensure branch: %w", err)
	}

	// Row exists; load it. The stored feature association wins.
	query = `
		SELECT branch_id, branch_name, merge_base_commit_hash, service_id, feature_id, deleted_at, created_at
		  FROM branch
		 WHERE service_id = $1 AND branch_name = $2 AND merge_base_commit_hash = $3
		   AND deleted_at IS NULL
	`
	err = r.pool.QueryRow(ctx, query, branch.ServiceID, branch.Name, branch.MergeBaseCommitHash).
		Scan(&branch.ID, &branch.Name, &branch.MergeBaseCommitHash, &branch.ServiceID,
			&branch.FeatureID, &branch.DeletedAt, &branch.CreatedAt)
	if err != nil {
		return fmt.Errorf("load existing branch: %w", err)
	}
	return nil
}

func (r *branchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	query := `
		SELECT branch_id, branch_name, merge_base_commit_hash, service_id, feature_id, deleted_at, created_at
		  FROM branch
		 WHERE branch_id = $1
	`
	branch := &domain.Branch{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&branch.ID, &branch.Name, &branch.MergeBaseCommitHash, &branch.ServiceID,
			&branch.FeatureID, &branch.DeletedAt, &branch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBranchNotFound
		}
		return nil, fmt.Errorf("get branch by id: %w", err)
	}
	return branch, nil
}

func (r *branchRepo) ListByService(ctx context.Context, serviceID uuid.UUID, filter ports.ListFilter) ([]*domain.Branch, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM branch WHERE service_id = $1 AND deleted_at IS NULL`
	if err := r.pool.QueryRow(ctx, countQuery, serviceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count branches: %w", err)
	}

	query := `
		SELECT branch_id, branch_name, merge_base_commit_hash, service_id, feature_id, deleted_at, created_at
		  FROM branch
		 WHERE service_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, serviceID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []*domain.Branch
	for rows.Next() {
		branch := &domain.Branch{}
		if err := rows.Scan(&branch.ID, &branch.Name, &branch.MergeBaseCommitHash, &branch.ServiceID,
			&branch.FeatureID, &branch.DeletedAt, &branch.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan branch row: %w", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate branch rows: %w", err)
	}

	return branches, total, nil
}

func (r *branchRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE branch SET deleted_at = now() WHERE branch_id = $1 AND deleted_at IS NULL`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrBranchNotFound
	}
	return nil
}
