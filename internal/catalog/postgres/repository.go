// Package postgres persists generation runs in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"synthgrid/internal/catalog"
)

// Repository handles run persistence. Files are stored as a comma-joined
// text column.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a run if not exists.
func (r *Repository) Create(ctx context.Context, run *catalog.Run) error {
	if r == nil || r.db == nil {
		return errors.New("catalog repo: nil db")
	}
	if run == nil || run.ID == "" {
		return errors.New("catalog repo: run with id required")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO generation_runs (
	id, started_at, zone, source, buildings, observations, frequency,
	quality_score, format, files, status
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)
ON CONFLICT (id) DO NOTHING`,
		run.ID, run.StartedAt.UTC(), run.Zone, run.Source, run.Buildings, run.Observations,
		run.Frequency, run.QualityScore, run.Format, strings.Join(run.Files, ","), run.Status)
	return err
}

// List returns runs newest first, up to limit.
func (r *Repository) List(ctx context.Context, limit int) ([]catalog.Run, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("catalog repo: nil db")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, started_at, zone, source, buildings, observations, frequency,
	quality_score, format, files, status
FROM generation_runs
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []catalog.Run
	for rows.Next() {
		var run catalog.Run
		var files string
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.Zone,
			&run.Source,
			&run.Buildings,
			&run.Observations,
			&run.Frequency,
			&run.QualityScore,
			&run.Format,
			&files,
			&run.Status,
		); err != nil {
			return nil, err
		}
		run.StartedAt = run.StartedAt.UTC()
		if files != "" {
			run.Files = strings.Split(files, ",")
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
