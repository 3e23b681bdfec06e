package apihttp

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"synthgrid/internal/buildings"
	"synthgrid/internal/catalog"
	"synthgrid/internal/export"
	"synthgrid/internal/generator"
	"synthgrid/internal/geo"
	"synthgrid/internal/ingest"
	"synthgrid/internal/observability/metrics"
	"synthgrid/internal/preview"
	"synthgrid/internal/validation"
)

// DatasetExporter writes datasets to files.
type DatasetExporter interface {
	Export(ds *generator.Dataset, format export.Format) (export.Manifest, error)
}

type generationRequest struct {
	Zone      string   `json:"zone,omitempty"`
	BBox      string   `json:"bbox,omitempty"`
	Buildings int      `json:"buildings,omitempty"`
	Types     []string `json:"types,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Frequency string   `json:"frequency"`
	Seed      int64    `json:"seed,omitempty"`
	Format    string   `json:"format,omitempty"`
}

type generationResponse struct {
	RunID        string            `json:"run_id"`
	PreviewKey   string            `json:"preview_key"`
	Zone         string            `json:"zone"`
	Source       string            `json:"source"`
	Buildings    int               `json:"buildings"`
	Observations int               `json:"observations"`
	Frequency    string            `json:"frequency"`
	Report       validation.Report `json:"report"`
	Manifest     *export.Manifest  `json:"manifest,omitempty"`
	Acquisition  *ingest.Summary   `json:"acquisition,omitempty"`
}

// generationCore holds the collaborators shared by the generation
// endpoints.
type generationCore struct {
	previews *preview.Store
	exporter DatasetExporter
	runs     catalog.Repository
	logger   *log.Logger
	now      func() time.Time
}

func newGenerationCore(previews *preview.Store, exporter DatasetExporter, runs catalog.Repository, logger *log.Logger) *generationCore {
	return &generationCore{
		previews: previews,
		exporter: exporter,
		runs:     runs,
		logger:   logger,
		now:      time.Now,
	}
}

// parsePeriod validates the request's dates and frequency.
func (req generationRequest) parsePeriod() (start, end time.Time, freq generator.Frequency, err error) {
	start, err = parseDate(req.StartDate, "start_date")
	if err != nil {
		return
	}
	end, err = parseDate(req.EndDate, "end_date")
	if err != nil {
		return
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = "H"
	}
	freq, err = generator.ParseFrequency(frequency)
	return
}

func (c *generationCore) seed(req generationRequest) int64 {
	if req.Seed != 0 {
		return req.Seed
	}
	return c.now().UnixNano()
}

// run generates, validates and optionally exports a dataset for an already
// resolved building set, then records the run.
func (c *generationCore) run(w http.ResponseWriter, req generationRequest, list []buildings.Building, source, zone string, acq *ingest.Summary) {
	start, end, freq, err := req.parsePeriod()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startedAt := c.now()
	ds, err := generator.New(c.seed(req)).Generate(generator.Request{
		Buildings: list,
		Start:     start,
		End:       end,
		Frequency: freq,
	})
	if err != nil {
		metrics.ObserveGeneration(metrics.ResultError, time.Since(startedAt), 0)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.ObserveGeneration(metrics.ResultSuccess, time.Since(startedAt), len(ds.Observations))

	report := validation.Validate(&ds)
	metrics.ObserveValidationScore(report.OverallScore)

	resp := generationResponse{
		RunID:        uuid.NewString(),
		Zone:         zone,
		Source:       source,
		Buildings:    len(ds.Buildings),
		Observations: len(ds.Observations),
		Frequency:    ds.Frequency,
		Report:       report,
		Acquisition:  acq,
	}

	if req.Format != "" {
		format, err := export.ParseFormat(req.Format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		exportStart := c.now()
		manifest, err := c.exporter.Export(&ds, format)
		if err != nil {
			metrics.ObserveExport(string(format), metrics.ResultError, time.Since(exportStart))
			c.logger.Printf("generation export: %v", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		metrics.ObserveExport(string(format), metrics.ResultSuccess, time.Since(exportStart))
		resp.Manifest = &manifest
	}

	resp.PreviewKey = c.previews.Put(ds)
	c.record(&resp, startedAt, acq)

	writeJSON(w, http.StatusOK, resp)
}

func (c *generationCore) record(resp *generationResponse, startedAt time.Time, acq *ingest.Summary) {
	if c.runs == nil {
		return
	}
	run := catalog.Run{
		ID:           resp.RunID,
		StartedAt:    startedAt.UTC(),
		Zone:         resp.Zone,
		Source:       resp.Source,
		Buildings:    resp.Buildings,
		Observations: resp.Observations,
		Frequency:    resp.Frequency,
		QualityScore: resp.Report.OverallScore,
		Status:       catalog.StatusCompleted,
	}
	if acq != nil && acq.SubregionsFailed > 0 {
		run.Status = catalog.StatusPartial
	}
	if resp.Manifest != nil {
		run.Format = string(resp.Manifest.Format)
		for _, f := range resp.Manifest.Files {
			run.Files = append(run.Files, f.Path)
		}
	}
	ctx, cancel := contextWithTimeout()
	defer cancel()
	if err := c.runs.Create(ctx, &run); err != nil {
		c.logger.Printf("record run %s: %v", run.ID, err)
	}
}

// GenerateHandler produces datasets over synthetic building sets.
type GenerateHandler struct {
	core *generationCore
}

// NewGenerateHandler constructs a GenerateHandler.
func NewGenerateHandler(previews *preview.Store, exporter DatasetExporter, runs catalog.Repository, logger *log.Logger) *GenerateHandler {
	return &GenerateHandler{core: newGenerationCore(previews, exporter, runs, logger)}
}

// ServeHTTP handles POST /api/v1/generation.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req generationRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	region, stateCode, err := resolveZoneWithCode(req.Zone, req.BBox)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	count := req.Buildings
	if count <= 0 {
		count = 100
	}
	if count > generator.MaxBuildings {
		http.Error(w, "buildings exceeds the maximum", http.StatusBadRequest)
		return
	}

	rng := rand.New(rand.NewSource(h.core.seed(req)))
	list := generator.SyntheticBuildings(rng, region, stateCode, count)
	h.core.run(w, req, list, "synthetic", zoneLabel(req), nil)
}

// GenerateOSMHandler produces datasets over real OSM footprints.
type GenerateOSMHandler struct {
	core   *generationCore
	source BuildingSource
}

// NewGenerateOSMHandler constructs a GenerateOSMHandler.
func NewGenerateOSMHandler(source BuildingSource, previews *preview.Store, exporter DatasetExporter, runs catalog.Repository, logger *log.Logger) *GenerateOSMHandler {
	return &GenerateOSMHandler{
		core:   newGenerationCore(previews, exporter, runs, logger),
		source: source,
	}
}

// ServeHTTP handles POST /api/v1/generation/osm.
func (h *GenerateOSMHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.source == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	var req generationRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	region, _, err := resolveZoneWithCode(req.Zone, req.BBox)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	types, err := parseTypeNames(req.Types)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > generator.MaxBuildings {
		limit = generator.MaxBuildings
	}

	list, summary, err := h.source.Acquire(r.Context(), ingest.Request{
		Region: region,
		Types:  types,
		Limit:  limit,
	})
	if err != nil {
		h.core.logger.Printf("osm generation acquire: %v", err)
		http.Error(w, "acquisition failed", http.StatusBadGateway)
		return
	}
	if len(list) == 0 {
		http.Error(w, "no buildings found in zone", http.StatusNotFound)
		return
	}
	h.core.run(w, req, list, "osm", zoneLabel(req), &summary)
}

// PreviewHandler produces a small synthetic sample an operator can inspect
// before committing to a full run. Previews are capped to keep them fast.
type PreviewHandler struct {
	core *generationCore
}

// Preview caps.
const (
	previewMaxBuildings = 50
	previewMaxDays      = 31
	previewSampleSize   = 100
)

// NewPreviewHandler constructs a PreviewHandler.
func NewPreviewHandler(previews *preview.Store, runs catalog.Repository, logger *log.Logger) *PreviewHandler {
	return &PreviewHandler{core: newGenerationCore(previews, nil, runs, logger)}
}

// ServeHTTP handles POST /api/v1/generation/preview.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req generationRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	region, stateCode, err := resolveZoneWithCode(req.Zone, req.BBox)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end, freq, err := req.parsePeriod()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if end.Sub(start).Hours() > previewMaxDays*24 {
		http.Error(w, "preview period exceeds the maximum", http.StatusBadRequest)
		return
	}
	count := req.Buildings
	if count <= 0 {
		count = 10
	}
	if count > previewMaxBuildings {
		http.Error(w, "preview buildings exceeds the maximum", http.StatusBadRequest)
		return
	}

	seed := h.core.seed(req)
	rng := rand.New(rand.NewSource(seed))
	list := generator.SyntheticBuildings(rng, region, stateCode, count)

	ds, err := generator.New(seed).Generate(generator.Request{
		Buildings: list,
		Start:     start,
		End:       end,
		Frequency: freq,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report := validation.Validate(&ds)

	sample := ds.Observations
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"preview_key":  h.core.previews.Put(ds),
		"zone":         zoneLabel(req),
		"buildings":    len(ds.Buildings),
		"observations": len(ds.Observations),
		"frequency":    ds.Frequency,
		"report":       report,
		"sample":       sample,
	})
}

func resolveZoneWithCode(zone, bbox string) (geo.Region, string, error) {
	if zone != "" {
		if s, ok := geo.LookupState(zone); ok {
			return s.Bounds, s.Code, nil
		}
		if c, ok := geo.LookupCity(zone); ok {
			return c.Bounds(), c.StateCode, nil
		}
		region, err := geo.ResolveZone(zone)
		return region, "MYS", err
	}
	if bbox != "" {
		region, err := geo.ParseBBox(bbox)
		return region, "MYS", err
	}
	return geo.Region{}, "", geo.ErrUnknownZone
}

func zoneLabel(req generationRequest) string {
	if req.Zone != "" {
		return req.Zone
	}
	return req.BBox
}

func parseTypeNames(names []string) ([]buildings.Type, error) {
	var out []buildings.Type
	for _, name := range names {
		t, ok := buildings.ParseType(name)
		if !ok {
			return nil, fmt.Errorf("unknown building type %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
