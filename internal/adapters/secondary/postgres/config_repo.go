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

type configRepo struct {
	pool *pgxpool.Pool
}

func NewConfigRepository(pool *pgxpool.Pool) ports.ConfigRepository {
	return &configRepo{pool: pool}
}

func (r *configRepo) Create(ctx context.Context, cfg *domain.Config) error {
	query := `
		INSERT INTO config (config_id, key_value_pairs)
		VALUES ($1, $2)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query, cfg.ID, cfg.KeyValuePairs).Scan(&cfg.CreatedAt); err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	return nil
}

func (r *configRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Config, error) {
	query := `
		SELECT config_id, key_value_pairs, created_at
		  FROM config
		 WHERE config_id = $1
	`
	return r.scanConfig(r.pool.QueryRow(ctx, query, id), "get config by id")
}

func (r *configRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Config, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM config`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count configs: %w", err)
	}

	query := `
		SELECT config_id, key_value_pairs, created_at
		  FROM config
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list configs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.Config
	for rows.Next() {
		cfg := &domain.Config{}
		if err := rows.Scan(&cfg.ID, &cfg.KeyValuePairs, &cfg.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan config row: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate config rows: %w", err)
	}

	return configs, total, nil
}

func (r *configRepo) EnsureEmpty(ctx context.Context) (*domain.Config, error) {
	query := `
		INSERT INTO config (config_id, key_value_pairs)
		VALUES ($1, '')
		ON CONFLICT (key_value_pairs) WHERE key_value_pairs = '' DO NOTHING
		RETURNING config_id, key_value_pairs, created_at
	`
	cfg, err := r.scanConfig(r.pool.QueryRow(ctx, query, uuid.New()), "ensure unit config")
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, domain.ErrConfigNotFound) {
		return nil, err
	}

	query = `
		SELECT config_id, key_value_pairs, created_at
		  FROM config
		 WHERE key_value_pairs = ''
		 LIMIT 1
	`
	return r.scanConfig(r.pool.QueryRow(ctx, query), "load unit config")
}

func (r *configRepo) LatestReleasedOnBranch(ctx context.Context, branchID uuid.UUID) (*domain.Config, error) {
	query := `
		SELECT c.config_id, c.key_value_pairs, c.created_at
		  FROM release r
		  JOIN config c USING (config_id)
		  JOIN iteration i USING (iteration_id)
		 WHERE i.branch_id = $1
		 ORDER BY r.created_at DESC
		 LIMIT 1
	`
	return r.scanConfig(r.pool.QueryRow(ctx, query, branchID), "latest config on branch")
}

func (r *configRepo) LatestReleasedOnCommit(ctx context.Context, serviceID uuid.UUID, commitHash string) (*domain.Config, error) {
	query := `
		SELECT c.config_id, c.key_value_pairs, c.created_at
		  FROM release r
		  JOIN config c USING (config_id)
		  JOIN iteration i USING (iteration_id)
		  JOIN branch b ON b.branch_id = i.branch_id
		 WHERE i.commit_hash = $1 AND b.service_id = $2
		 ORDER BY r.created_at DESC
		 LIMIT 1
	`
	return r.scanConfig(r.pool.QueryRow(ctx, query, commitHash, serviceID), "latest config on commit")
}

func (r *configRepo) scanConfig(row pgx.Row, op string) (*domain.Config, error) {
	cfg := &domain.Config{}
	err := row.Scan(&cfg.ID, &cfg.KeyValuePairs, &cfg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}
