package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	apihttp "synthgrid/internal/api/http"
	"synthgrid/internal/audit"
	"synthgrid/internal/auth"
	"synthgrid/internal/catalog"
	"synthgrid/internal/catalog/memory"
	catalogpg "synthgrid/internal/catalog/postgres"
	"synthgrid/internal/export"
	"synthgrid/internal/ingest"
	"synthgrid/internal/observability/metrics"
	"synthgrid/internal/osmcache"
	"synthgrid/internal/overpass"
	"synthgrid/internal/preview"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	pipeCfg, err := ingest.LoadConfig()
	if err != nil {
		logger.Fatalf("pipeline config error: %v", err)
	}

	var db *sql.DB
	var runs catalog.Repository
	var auditLog audit.Logger
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		runs = catalogpg.NewRepository(db)
		auditLog = audit.NewRepository(db)
	} else {
		logger.Printf("DATABASE_URL not set, keeping run history in memory")
		runs = memory.NewRepository()
	}

	metrics.Init(db, logger)

	client, err := overpass.NewClient(pipeCfg.Backends, pipeCfg.QueryTimeout,
		overpass.WithMaxAttempts(pipeCfg.MaxAttempts),
		overpass.WithBackoffBase(pipeCfg.BackoffBase),
		overpass.WithUserAgent(pipeCfg.UserAgent),
	)
	if err != nil {
		logger.Fatalf("overpass client error: %v", err)
	}

	cache, err := osmcache.New(pipeCfg.CacheDir, pipeCfg.CacheTTL, logger)
	if err != nil {
		logger.Fatalf("osm cache error: %v", err)
	}

	source, err := ingest.NewService(client, cache, pipeCfg.MaxCellArea, pipeCfg.Concurrency, logger, metrics.PipelineObserver{})
	if err != nil {
		logger.Fatalf("ingest service error: %v", err)
	}

	previews, err := preview.NewStore(cfg.PreviewTTL, cfg.PreviewMax)
	if err != nil {
		logger.Fatalf("preview store error: %v", err)
	}
	exporter, err := export.NewExporter(cfg.ExportDir)
	if err != nil {
		logger.Fatalf("exporter error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/zones", apihttp.NewZonesHandler())
	mux.Handle("/api/v1/building-types", apihttp.NewBuildingTypesHandler())
	mux.Handle("/api/v1/export-formats", apihttp.NewExportFormatsHandler())
	mux.Handle("/api/v1/osm/buildings", apihttp.NewOSMBuildingsHandler(source, logger))
	mux.Handle("/api/v1/osm/stats", apihttp.NewOSMStatsHandler(source, logger))
	mux.Handle("/api/v1/osm/cache/info", apihttp.NewCacheInfoHandler(cache))
	mux.Handle("/api/v1/osm/cache/clear", apihttp.NewCacheClearHandler(cache, auditLog, logger))
	mux.Handle("/api/v1/generation", apihttp.NewGenerateHandler(previews, exporter, runs, logger))
	mux.Handle("/api/v1/generation/osm", apihttp.NewGenerateOSMHandler(source, previews, exporter, runs, logger))
	mux.Handle("/api/v1/generation/preview", apihttp.NewPreviewHandler(previews, runs, logger))
	mux.Handle("/api/v1/validate", apihttp.NewValidateHandler(previews))
	mux.Handle("/api/v1/export", apihttp.NewExportHandler(previews, exporter, auditLog, logger))
	mux.Handle("/api/v1/export/report.pdf", apihttp.NewReportPDFHandler(previews, logger))
	mux.Handle("/api/v1/runs", apihttp.NewRunsHandler(runs, logger))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	ExportDir   string
	PreviewTTL  time.Duration
	PreviewMax  int
}

func loadConfig() config {
	cfg := config{
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ExportDir:   getenvDefault("EXPORT_DIR", "var/exports"),
		PreviewTTL:  getenvDuration("PREVIEW_TTL", 30*time.Minute),
		PreviewMax:  getenvIntDefault("PREVIEW_MAX_ENTRIES", 64),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
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

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
