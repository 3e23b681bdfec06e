package apihttp

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"synthgrid/internal/audit"
	"synthgrid/internal/catalog"
	"synthgrid/internal/export"
	"synthgrid/internal/generator"
	"synthgrid/internal/observability/metrics"
	"synthgrid/internal/preview"
	"synthgrid/internal/validation"
)

// ValidateHandler scores a dataset, either a previously generated one by
// its preview key or one posted inline.
type ValidateHandler struct {
	previews *preview.Store
}

// NewValidateHandler constructs a ValidateHandler.
func NewValidateHandler(previews *preview.Store) *ValidateHandler {
	return &ValidateHandler{previews: previews}
}

type validateRequest struct {
	PreviewKey string             `json:"preview_key,omitempty"`
	Dataset    *generator.Dataset `json:"dataset,omitempty"`
}

// ServeHTTP handles POST /api/v1/validate.
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req validateRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ds, ok := h.resolveDataset(req)
	if !ok {
		http.Error(w, "preview_key or dataset is required", http.StatusBadRequest)
		return
	}
	report := validation.Validate(&ds)
	metrics.ObserveValidationScore(report.OverallScore)
	writeJSON(w, http.StatusOK, report)
}

func (h *ValidateHandler) resolveDataset(req validateRequest) (generator.Dataset, bool) {
	if req.PreviewKey != "" {
		return h.previews.Get(req.PreviewKey)
	}
	if req.Dataset != nil {
		return *req.Dataset, true
	}
	return generator.Dataset{}, false
}

// ExportHandler writes a previously generated dataset to files.
type ExportHandler struct {
	previews *preview.Store
	exporter DatasetExporter
	auditLog audit.Logger
	logger   *log.Logger
}

// NewExportHandler constructs an ExportHandler. The audit logger may be
// nil.
func NewExportHandler(previews *preview.Store, exporter DatasetExporter, auditLog audit.Logger, logger *log.Logger) *ExportHandler {
	return &ExportHandler{previews: previews, exporter: exporter, auditLog: auditLog, logger: logger}
}

type exportRequest struct {
	PreviewKey string `json:"preview_key"`
	Format     string `json:"format"`
}

// ServeHTTP handles POST /api/v1/export.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req exportRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ds, ok := h.previews.Get(req.PreviewKey)
	if !ok {
		http.Error(w, "unknown or expired preview_key", http.StatusNotFound)
		return
	}

	started := time.Now()
	manifest, err := h.exporter.Export(&ds, format)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(started))
		h.logger.Printf("export: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(string(format), metrics.ResultSuccess, time.Since(started))
	if h.auditLog != nil {
		entry := auditEntry(r, audit.ActionDatasetExport, req.PreviewKey)
		entry.Metadata, _ = json.Marshal(map[string]any{
			"format": format,
			"files":  len(manifest.Files),
		})
		if err := h.auditLog.Log(r.Context(), entry); err != nil {
			h.logger.Printf("audit export: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, manifest)
}

// ReportPDFHandler renders the quality report of a stored dataset as PDF.
type ReportPDFHandler struct {
	previews *preview.Store
	logger   *log.Logger
}

// NewReportPDFHandler constructs a ReportPDFHandler.
func NewReportPDFHandler(previews *preview.Store, logger *log.Logger) *ReportPDFHandler {
	return &ReportPDFHandler{previews: previews, logger: logger}
}

// ServeHTTP handles GET /api/v1/export/report.pdf.
func (h *ReportPDFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}
	ds, ok := h.previews.Get(key)
	if !ok {
		http.Error(w, "unknown or expired key", http.StatusNotFound)
		return
	}

	report := validation.Validate(&ds)
	data, err := export.BuildValidationPDF(report, &ds)
	if err != nil {
		h.logger.Printf("report pdf: %v", err)
		http.Error(w, "pdf build failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quality_report.pdf"`)
	_, _ = w.Write(data)
}

// RunsHandler lists recorded generation runs.
type RunsHandler struct {
	runs   catalog.Repository
	logger *log.Logger
}

// NewRunsHandler constructs a RunsHandler.
func NewRunsHandler(runs catalog.Repository, logger *log.Logger) *RunsHandler {
	return &RunsHandler{runs: runs, logger: logger}
}

// ServeHTTP handles GET /api/v1/runs.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.runs == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	list, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.logger.Printf("list runs: %v", err)
		http.Error(w, "list runs failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": list})
}
