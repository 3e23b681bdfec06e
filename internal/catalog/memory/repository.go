// Package memory provides an in-memory run repository for deployments
// without a database and for tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"synthgrid/internal/catalog"
)

// Repository stores runs in a mutex-guarded map.
type Repository struct {
	mu   sync.RWMutex
	runs map[string]catalog.Run
}

// NewRepository constructs an empty repository.
func NewRepository() *Repository {
	return &Repository{runs: make(map[string]catalog.Run)}
}

// Create stores a run. Existing ids are left untouched.
func (r *Repository) Create(_ context.Context, run *catalog.Run) error {
	if run == nil || run.ID == "" {
		return errors.New("catalog memory: run with id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runs[run.ID]; exists {
		return nil
	}
	r.runs[run.ID] = *run
	return nil
}

// List returns runs newest first, up to limit.
func (r *Repository) List(_ context.Context, limit int) ([]catalog.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]catalog.Run, 0, len(r.runs))
	for _, run := range r.runs {
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
