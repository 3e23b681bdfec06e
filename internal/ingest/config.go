package ingest

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines the acquisition pipeline configuration. Values come from
// env variables, optionally overridden by a yaml file named in
// PIPELINE_CONFIG.
type Config struct {
	Backends     []string      `yaml:"backends"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	BackoffBase  time.Duration `yaml:"backoff_base"`
	Concurrency  int           `yaml:"concurrency"`
	MaxCellArea  float64       `yaml:"max_cell_area"`
	CacheDir     string        `yaml:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	UserAgent    string        `yaml:"user_agent"`
}

// LoadConfig loads pipeline config from env, then from yaml if present.
func LoadConfig() (Config, error) {
	cfg := Config{
		Backends: splitCSV(getenvDefault("OVERPASS_URLS",
			"https://overpass-api.de/api/interpreter,https://overpass.kumi.systems/api/interpreter")),
		QueryTimeout: getenvDuration("OVERPASS_TIMEOUT", 120*time.Second),
		MaxAttempts:  getenvIntDefault("OVERPASS_MAX_ATTEMPTS", 3),
		BackoffBase:  getenvDuration("OVERPASS_BACKOFF_BASE", time.Second),
		Concurrency:  getenvIntDefault("FETCH_CONCURRENCY", 4),
		MaxCellArea:  getenvFloatDefault("MAX_CELL_AREA", 0.25),
		CacheDir:     getenvDefault("CACHE_DIR", "var/cache/osm"),
		CacheTTL:     getenvDuration("CACHE_TTL", 24*time.Hour),
		UserAgent:    getenvDefault("OVERPASS_USER_AGENT", "synthgrid/1.0"),
	}

	if path := os.Getenv("PIPELINE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(cfg.Backends) == 0 {
		return cfg, errors.New("ingest: at least one backend required")
	}
	if cfg.Concurrency <= 0 {
		return cfg, errors.New("ingest: concurrency must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
