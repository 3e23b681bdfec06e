package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"synthgrid/internal/audit"
	"synthgrid/internal/buildings"
	"synthgrid/internal/geo"
	"synthgrid/internal/ingest"
	"synthgrid/internal/osmcache"
)

// BuildingSource acquires building footprints for a region.
type BuildingSource interface {
	Acquire(ctx context.Context, req ingest.Request) ([]buildings.Building, ingest.Summary, error)
}

// CacheAdmin exposes the OSM cache to the API.
type CacheAdmin interface {
	Stat() osmcache.Info
	Clear() (int, error)
}

// parseRegionQuery resolves zone= or bbox= query params to a region.
func parseRegionQuery(r *http.Request) (geo.Region, error) {
	if zone := r.URL.Query().Get("zone"); zone != "" {
		return geo.ResolveZone(zone)
	}
	if bbox := r.URL.Query().Get("bbox"); bbox != "" {
		return geo.ParseBBox(bbox)
	}
	return geo.Region{}, errors.New("zone or bbox is required")
}

func parseTypesQuery(r *http.Request) ([]buildings.Type, error) {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		return nil, nil
	}
	var out []buildings.Type
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, ok := buildings.ParseType(part)
		if !ok {
			return nil, errors.New("unknown building type " + strconv.Quote(part))
		}
		out = append(out, t)
	}
	return out, nil
}

// OSMBuildingsHandler serves building footprint queries.
type OSMBuildingsHandler struct {
	source BuildingSource
	logger *log.Logger
}

// NewOSMBuildingsHandler constructs an OSMBuildingsHandler.
func NewOSMBuildingsHandler(source BuildingSource, logger *log.Logger) *OSMBuildingsHandler {
	return &OSMBuildingsHandler{source: source, logger: logger}
}

// ServeHTTP handles GET /api/v1/osm/buildings.
func (h *OSMBuildingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.source == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	region, err := parseRegionQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	types, err := parseTypesQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	list, summary, err := h.source.Acquire(r.Context(), ingest.Request{
		Region: region,
		Types:  types,
		Limit:  limit,
	})
	if err != nil {
		h.logger.Printf("osm buildings: %v", err)
		http.Error(w, "acquisition failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"buildings":   list,
		"summary":     buildings.Summarize(list),
		"acquisition": summary,
	})
}

// OSMStatsHandler serves per-type counts for a zone.
type OSMStatsHandler struct {
	source BuildingSource
	logger *log.Logger
}

// NewOSMStatsHandler constructs an OSMStatsHandler.
func NewOSMStatsHandler(source BuildingSource, logger *log.Logger) *OSMStatsHandler {
	return &OSMStatsHandler{source: source, logger: logger}
}

// ServeHTTP handles GET /api/v1/osm/stats.
func (h *OSMStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.source == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	region, err := parseRegionQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, summary, err := h.source.Acquire(r.Context(), ingest.Request{Region: region})
	if err != nil {
		h.logger.Printf("osm stats: %v", err)
		http.Error(w, "acquisition failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":     buildings.Summarize(list),
		"acquisition": summary,
	})
}

// CacheInfoHandler reports cache directory stats.
type CacheInfoHandler struct {
	cache CacheAdmin
}

// NewCacheInfoHandler constructs a CacheInfoHandler.
func NewCacheInfoHandler(cache CacheAdmin) *CacheInfoHandler {
	return &CacheInfoHandler{cache: cache}
}

// ServeHTTP handles GET /api/v1/osm/cache/info.
func (h *CacheInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.cache == nil {
		http.Error(w, "cache disabled", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, h.cache.Stat())
}

// CacheClearHandler empties the cache.
type CacheClearHandler struct {
	cache    CacheAdmin
	auditLog audit.Logger
	logger   *log.Logger
}

// NewCacheClearHandler constructs a CacheClearHandler. The audit logger
// may be nil.
func NewCacheClearHandler(cache CacheAdmin, auditLog audit.Logger, logger *log.Logger) *CacheClearHandler {
	return &CacheClearHandler{cache: cache, auditLog: auditLog, logger: logger}
}

// ServeHTTP handles POST /api/v1/osm/cache/clear.
func (h *CacheClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.cache == nil {
		http.Error(w, "cache disabled", http.StatusServiceUnavailable)
		return
	}
	removed, err := h.cache.Clear()
	if err != nil {
		h.logger.Printf("cache clear: %v", err)
		http.Error(w, "cache clear failed", http.StatusInternalServerError)
		return
	}
	if h.auditLog != nil {
		entry := auditEntry(r, audit.ActionCacheClear, "osm_cache")
		entry.Metadata, _ = json.Marshal(map[string]int{"removed": removed})
		if err := h.auditLog.Log(r.Context(), entry); err != nil {
			h.logger.Printf("audit cache clear: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}
