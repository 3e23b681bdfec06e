// Package ingest runs the OpenStreetMap acquisition pipeline: partition a
// region into Overpass-sized cells, fetch each cell through the cache with
// bounded concurrency, then normalize and deduplicate the merged result.
package ingest

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"synthgrid/internal/buildings"
	"synthgrid/internal/geo"
	"synthgrid/internal/overpass"
)

// Fetcher retrieves raw elements for a single cell.
type Fetcher interface {
	Fetch(ctx context.Context, region geo.Region, buildingTypes []string) ([]overpass.Element, error)
}

// ElementCache stores raw cell responses between runs.
type ElementCache interface {
	Get(region geo.Region) ([]overpass.Element, bool)
	Put(region geo.Region, elements []overpass.Element)
}

// SubregionFailure records a cell whose fetch was abandoned after retries.
type SubregionFailure struct {
	Region geo.Region `json:"region"`
	Error  string     `json:"error"`
}

// Summary accounts for everything that happened during one acquisition run.
type Summary struct {
	SubregionsTotal   int                          `json:"subregions_total"`
	SubregionsFailed  int                          `json:"subregions_failed"`
	SubregionsSkipped int                          `json:"subregions_skipped,omitempty"`
	Failures          []SubregionFailure           `json:"failures,omitempty"`
	ElementsSeen      int                          `json:"elements_seen"`
	ElementsDropped   map[buildings.DropReason]int `json:"elements_dropped,omitempty"`
	Duplicates        int                          `json:"duplicates_removed"`
	CacheHits         int                          `json:"cache_hits"`
	CacheMisses       int                          `json:"cache_misses"`
	ByType            map[buildings.Type]int       `json:"by_type"`
}

// Metrics receives pipeline counters. The observability package provides
// the production implementation; tests pass nil.
type Metrics interface {
	ObserveFetch(result string, duration time.Duration)
	CacheHit()
	CacheMiss()
	ElementsDropped(n int)
}

// Service wires the pipeline stages together.
type Service struct {
	fetcher     Fetcher
	cache       ElementCache
	maxCellArea float64
	concurrency int64
	logger      *log.Logger
	metrics     Metrics
}

// NewService validates its collaborators and returns a pipeline service.
// The cache and metrics may be nil.
func NewService(fetcher Fetcher, cache ElementCache, maxCellArea float64, concurrency int, logger *log.Logger, metrics Metrics) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("ingest: nil fetcher")
	}
	if concurrency <= 0 {
		return nil, errors.New("ingest: concurrency must be positive")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		fetcher:     fetcher,
		cache:       cache,
		maxCellArea: maxCellArea,
		concurrency: int64(concurrency),
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// Request scopes one acquisition run.
type Request struct {
	Region geo.Region
	Types  []buildings.Type
	Limit  int
}

// Acquire runs the full pipeline for a region. Individual cell failures are
// recorded in the summary and do not abort the run; only context
// cancellation or an invalid region ends it early.
func (s *Service) Acquire(ctx context.Context, req Request) ([]buildings.Building, Summary, error) {
	if err := req.Region.Validate(); err != nil {
		return nil, Summary{}, err
	}

	cells := geo.Partition(req.Region, s.maxCellArea)
	summary := Summary{
		SubregionsTotal: len(cells),
		ElementsDropped: make(map[buildings.DropReason]int),
		ByType:          make(map[buildings.Type]int),
	}

	var (
		mu       sync.Mutex
		merged   []overpass.Element
		failures []SubregionFailure
	)
	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup

	scheduled := 0
	for _, cell := range cells {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, summary, err
		}
		// Stop scheduling cells once the merged elements already cover
		// the limit. Drops and filtering can still shrink the final set
		// below it, but no further quota is spent on discarded data.
		if req.Limit > 0 {
			mu.Lock()
			reached := len(merged) >= req.Limit
			mu.Unlock()
			if reached {
				sem.Release(1)
				break
			}
		}
		scheduled++
		wg.Add(1)
		go func(cell geo.Region) {
			defer sem.Release(1)
			defer wg.Done()

			elements, hit, err := s.fetchCell(ctx, cell)
			mu.Lock()
			defer mu.Unlock()
			if hit {
				summary.CacheHits++
			} else {
				summary.CacheMisses++
			}
			if err != nil {
				s.logger.Printf("ingest: cell %s failed: %v", cell.Key(), err)
				failures = append(failures, SubregionFailure{Region: cell, Error: err.Error()})
				return
			}
			merged = append(merged, elements...)
		}(cell)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Region.Key() < failures[j].Region.Key()
	})
	summary.Failures = failures
	summary.SubregionsFailed = len(failures)
	summary.SubregionsSkipped = len(cells) - scheduled
	summary.ElementsSeen = len(merged)

	normalized := buildings.Normalize(merged, req.Region)
	for reason, n := range normalized.Dropped {
		summary.ElementsDropped[reason] += n
		if s.metrics != nil {
			s.metrics.ElementsDropped(n)
		}
	}

	deduped := buildings.Dedupe(normalized.Buildings)
	summary.Duplicates = len(normalized.Buildings) - len(deduped)

	result := filterTypes(deduped, req.Types)
	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}
	for _, b := range result {
		summary.ByType[b.Type]++
	}
	return result, summary, nil
}

// fetchCell serves a cell from the cache when possible. Fetches always run
// with the broad query filter so cached cells stay reusable across requests
// with different type selections; category filtering happens locally.
func (s *Service) fetchCell(ctx context.Context, cell geo.Region) ([]overpass.Element, bool, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(cell); ok {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			return cached, true, nil
		}
		if s.metrics != nil {
			s.metrics.CacheMiss()
		}
	}

	started := time.Now()
	elements, err := s.fetcher.Fetch(ctx, cell, nil)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveFetch("error", time.Since(started))
		}
		return nil, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveFetch("success", time.Since(started))
	}
	if s.cache != nil {
		s.cache.Put(cell, elements)
	}
	return elements, false, nil
}

func filterTypes(list []buildings.Building, types []buildings.Type) []buildings.Building {
	if len(types) == 0 {
		return list
	}
	wanted := make(map[buildings.Type]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	out := make([]buildings.Building, 0, len(list))
	for _, b := range list {
		if wanted[b.Type] {
			out = append(out, b)
		}
	}
	return out
}
