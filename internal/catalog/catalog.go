// Package catalog records completed generation runs so operators can list
// what was produced and where the files went.
package catalog

import (
	"context"
	"time"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// Run describes one completed generation run.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Zone         string    `json:"zone"`
	Source       string    `json:"source"`
	Buildings    int       `json:"buildings"`
	Observations int       `json:"observations"`
	Frequency    string    `json:"frequency"`
	QualityScore float64   `json:"quality_score"`
	Format       string    `json:"format,omitempty"`
	Files        []string  `json:"files,omitempty"`
	Status       string    `json:"status"`
}

// Repository persists runs.
type Repository interface {
	Create(ctx context.Context, run *Run) error
	List(ctx context.Context, limit int) ([]Run, error)
}
