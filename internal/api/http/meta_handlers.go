package apihttp

import (
	"net/http"

	"synthgrid/internal/buildings"
	"synthgrid/internal/export"
	"synthgrid/internal/generator"
	"synthgrid/internal/geo"
)

// ZonesHandler lists the zones generation requests may target.
type ZonesHandler struct{}

// NewZonesHandler constructs a ZonesHandler.
func NewZonesHandler() *ZonesHandler {
	return &ZonesHandler{}
}

// ServeHTTP handles GET /api/v1/zones.
func (h *ZonesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"country": geo.MalaysiaBounds,
		"states":  geo.States(),
		"cities":  geo.Cities(),
	})
}

// BuildingTypesHandler lists the building categories.
type BuildingTypesHandler struct{}

// NewBuildingTypesHandler constructs a BuildingTypesHandler.
func NewBuildingTypesHandler() *BuildingTypesHandler {
	return &BuildingTypesHandler{}
}

// ServeHTTP handles GET /api/v1/building-types.
func (h *BuildingTypesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"building_types":   buildings.Types(),
		"base_daily_loads": generator.BaseDailyLoads(),
	})
}

// ExportFormatsHandler lists supported export formats and frequencies.
type ExportFormatsHandler struct{}

// NewExportFormatsHandler constructs an ExportFormatsHandler.
func NewExportFormatsHandler() *ExportFormatsHandler {
	return &ExportFormatsHandler{}
}

// ServeHTTP handles GET /api/v1/export-formats.
func (h *ExportFormatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formats":     export.Formats(),
		"frequencies": generator.Frequencies(),
	})
}
