package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "synthgrid_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	fetchRequests *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec

	elementsDropped prometheus.Counter

	generationTotal   *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	observationsTotal prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	validationScore prometheus.Histogram
)

// Init registers service metrics and optional DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		fetchRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "overpass_fetch_total",
				Help: "Total Overpass cell fetches by result",
			},
			[]string{"result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "overpass_fetch_latency_seconds",
				Help:    "Overpass cell fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		cacheEvents = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "osm_cache_events_total",
				Help: "OSM cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		elementsDropped = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalize_dropped_total",
				Help: "Raw elements dropped during normalization",
			},
		)

		generationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "generation_total",
				Help: "Total dataset generation runs by result",
			},
			[]string{"result"},
		)
		generationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "generation_latency_seconds",
				Help:    "Dataset generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		observationsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "observations_generated_total",
				Help: "Total observations generated",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total dataset exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Dataset export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		validationScore = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "validation_score",
				Help:    "Distribution of dataset quality scores",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		)

		prometheus.MustRegister(
			fetchRequests,
			fetchLatency,
			cacheEvents,
			elementsDropped,
			generationTotal,
			generationLatency,
			observationsTotal,
			exportTotal,
			exportLatency,
			validationScore,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveFetch records one Overpass cell fetch.
func ObserveFetch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if fetchRequests != nil {
		fetchRequests.WithLabelValues(result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncCacheEvent counts a cache hit or miss.
func IncCacheEvent(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	if cacheEvents != nil {
		cacheEvents.WithLabelValues(outcome).Inc()
	}
}

// AddElementsDropped counts normalizer drops.
func AddElementsDropped(count int) {
	if count <= 0 {
		return
	}
	if elementsDropped != nil {
		elementsDropped.Add(float64(count))
	}
}

// ObserveGeneration records one generation run.
func ObserveGeneration(result string, duration time.Duration, observations int) {
	if result == "" {
		result = resultSuccess
	}
	if generationTotal != nil {
		generationTotal.WithLabelValues(result).Inc()
	}
	if generationLatency != nil {
		generationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if observationsTotal != nil && observations > 0 {
		observationsTotal.Add(float64(observations))
	}
}

// ObserveExport records one export by format.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveValidationScore records a dataset quality score.
func ObserveValidationScore(score float64) {
	if validationScore != nil {
		validationScore.Observe(score)
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	CacheHit  = "hit"
	CacheMiss = "miss"
)
