// Package preview holds recently generated sample datasets in memory so an
// operator can inspect a run before committing to a full export.
package preview

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"synthgrid/internal/buildings"
	"synthgrid/internal/generator"
)

// Store keeps datasets keyed by opaque ids with a TTL. Expired entries are
// evicted lazily on access and when new entries come in.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	max     int
	now     func() time.Time
}

type entry struct {
	dataset  generator.Dataset
	storedAt time.Time
}

// clone returns a dataset whose slices are detached from the stored entry.
// Validation mutates observation statuses in place, and two callers holding
// the same key must not see each other's writes.
func (e entry) clone() generator.Dataset {
	ds := e.dataset
	ds.Buildings = append([]buildings.Building(nil), e.dataset.Buildings...)
	ds.Observations = append([]generator.Observation(nil), e.dataset.Observations...)
	return ds
}

// NewStore returns a store that holds at most max entries for ttl each.
func NewStore(ttl time.Duration, max int) (*Store, error) {
	if ttl <= 0 {
		return nil, errors.New("preview: ttl must be positive")
	}
	if max <= 0 {
		return nil, errors.New("preview: max entries must be positive")
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}, nil
}

// Put stores a dataset and returns its key.
func (s *Store) Put(ds generator.Dataset) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	key := uuid.NewString()
	s.entries[key] = entry{dataset: ds, storedAt: s.now()}
	return key
}

// Get returns the dataset for a key, if it is still alive.
func (s *Store) Get(key string) (generator.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return generator.Dataset{}, false
	}
	if s.now().Sub(e.storedAt) > s.ttl {
		delete(s.entries, key)
		return generator.Dataset{}, false
	}
	return e.clone(), true
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	return len(s.entries)
}

// evictLocked drops expired entries, then the oldest ones while over the
// size bound.
func (s *Store) evictLocked() {
	now := s.now()
	for key, e := range s.entries {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.entries, key)
		}
	}
	for len(s.entries) >= s.max {
		oldestKey := ""
		var oldest time.Time
		for key, e := range s.entries {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = key
				oldest = e.storedAt
			}
		}
		delete(s.entries, oldestKey)
	}
}
