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

type releaseRepo struct {
	pool *pgxpool.Pool
}

func NewReleaseRepository(pool *pgxpool.Pool) ports.ReleaseRepository {
	return &releaseRepo{pool: pool}
}

// Ensure inserts the release or loads the stored one. The uniqueness key
// depends on whether the release is bound to a pipeline, hence the two
// conflict targets.
func (r *releaseRepo) Ensure(ctx context.Context, release *domain.Release) error {
	var query string
	if release.PipelineID != nil {
		query = `
			INSERT INTO release (release_id, iteration_id, config_id, pipeline_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (iteration_id, pipeline_id) WHERE pipeline_id IS NOT NULL
			DO NOTHING
			RETURNING release_id, created_at
		`
	} else {
		query = `
			INSERT INTO release (release_id, iteration_id, config_id, pipeline_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (iteration_id) WHERE pipeline_id IS NULL
			DO NOTHING
			RETURNING release_id, created_at
		`
	}

	err := r.pool.QueryRow(ctx, query,
		release.ID, release.IterationID, release.ConfigID, release.PipelineID,
	).Scan(&release.ID, &release.CreatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ensure release: %w", err)
	}

	// Load the stored release, config association included.
	var loadQuery string
	args := []interface{}{release.IterationID}
	if release.PipelineID != nil {
		loadQuery = `
			SELECT release_id, iteration_id, config_id, pipeline_id, created_at
			  FROM release
			 WHERE iteration_id = $1 AND pipeline_id = $2
		`
		args = append(args, *release.PipelineID)
	} else {
		loadQuery = `
			SELECT release_id, iteration_id, config_id, pipeline_id, created_at
			  FROM release
			 WHERE iteration_id = $1 AND pipeline_id IS NULL
		`
	}
	err = r.pool.QueryRow(ctx, loadQuery, args...).
		Scan(&release.ID, &release.IterationID, &release.ConfigID, &release.PipelineID, &release.CreatedAt)
	if err != nil {
		return fmt.Errorf("load existing release: %w", err)
	}
	return nil
}

func (r *releaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Release, error) {
	query := `
		SELECT release_id, iteration_id, config_id, pipeline_id, created_at
		  FROM release
		 WHERE release_id = $1
	`
	release := &domain.Release{}
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&release.ID, &release.IterationID, &release.ConfigID, &release.PipelineID, &release.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReleaseNotFound
		}
		return nil, fmt.Errorf("get release by id: %w", err)
	}
	return release, nil
}

func (r *releaseRepo) List(ctx context.Context, filter ports.ReleaseFilter) ([]*domain.Release, int, error) {
	whereClause := "1=1"
	args := []interface{}{}
	argPos := 1

	if filter.IterationID != uuid.Nil {
		whereClause = fmt.Sprintf("iteration_id = $%d", argPos)
		args = append(args, filter.IterationID)
		argPos++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM release WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count releases: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT release_id, iteration_id, config_id, pipeline_id, created_at
		  FROM release
		 WHERE %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	var releases []*domain.Release
	for rows.Next() {
		release := &domain.Release{}
		if err := rows.Scan(&release.ID, &release.IterationID, &release.ConfigID,
			&release.PipelineID, &release.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan release row: %w", err)
		}
		releases = append(releases, release)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate release rows: %w", err)
	}

	return releases, total, nil
}
