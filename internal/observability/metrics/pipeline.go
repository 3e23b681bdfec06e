package metrics

import "time"

// PipelineObserver adapts the package counters to the acquisition
// pipeline's metrics hooks.
type PipelineObserver struct{}

func (PipelineObserver) ObserveFetch(result string, duration time.Duration) {
	ObserveFetch(result, duration)
}

func (PipelineObserver) CacheHit() { IncCacheEvent(CacheHit) }

func (PipelineObserver) CacheMiss() { IncCacheEvent(CacheMiss) }

func (PipelineObserver) ElementsDropped(count int) { AddElementsDropped(count) }
