package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"synthgrid/internal/buildings"
	"synthgrid/internal/generator"
)

// Exporter writes datasets into its output directory. File names carry a
// timestamp prefix so consecutive exports never collide.
type Exporter struct {
	dir string
	now func() time.Time
}

// NewExporter ensures the output directory exists.
func NewExporter(dir string) (*Exporter, error) {
	if dir == "" {
		return nil, errors.New("export: empty output dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create dir: %w", err)
	}
	return &Exporter{dir: dir, now: time.Now}, nil
}

// Export writes a dataset in the requested format and returns the manifest.
func (e *Exporter) Export(ds *generator.Dataset, format Format) (Manifest, error) {
	stamp := e.now().UTC().Format("20060102_150405")
	manifest := Manifest{Format: format, CreatedAt: e.now().UTC()}

	var files []File
	var err error
	switch format {
	case FormatCSV:
		files, err = e.writeCSV(ds, stamp)
	case FormatJSON:
		files, err = e.writeJSON(ds, stamp)
	case FormatParquet:
		files, err = e.writeParquet(ds, stamp)
	case FormatExcel:
		files, err = e.writeExcel(ds, stamp)
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Manifest{}, err
	}
	manifest.Files = files
	return manifest, nil
}

var buildingColumns = []string{
	"building_id", "building_type", "latitude", "longitude",
	"area_m2", "levels", "name", "street", "city", "source",
}

var observationColumns = []string{
	"building_id", "timestamp", "consumption_kwh",
	"temperature_c", "quality_score", "status",
}

func buildingRecord(b buildings.Building) []string {
	area, levels := "", ""
	if b.AreaM2 != nil {
		area = strconv.FormatFloat(*b.AreaM2, 'f', 1, 64)
	}
	if b.Levels != nil {
		levels = strconv.Itoa(*b.Levels)
	}
	return []string{
		b.ID, string(b.Type),
		strconv.FormatFloat(b.Lat, 'f', 6, 64),
		strconv.FormatFloat(b.Lon, 'f', 6, 64),
		area, levels, b.Name, b.Street, b.City, string(b.Source),
	}
}

func observationRecord(o generator.Observation) []string {
	return []string{
		o.BuildingID,
		o.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatFloat(o.ConsumptionKWh, 'f', 2, 64),
		strconv.FormatFloat(o.TemperatureC, 'f', 1, 64),
		strconv.FormatFloat(o.QualityScore, 'f', 2, 64),
		o.Status,
	}
}

func (e *Exporter) writeCSV(ds *generator.Dataset, stamp string) ([]File, error) {
	bFile, err := e.writeCSVFile("buildings_"+stamp+".csv", buildingColumns, len(ds.Buildings),
		func(w *csv.Writer) error {
			for _, b := range ds.Buildings {
				if err := w.Write(buildingRecord(b)); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	oFile, err := e.writeCSVFile("timeseries_"+stamp+".csv", observationColumns, len(ds.Observations),
		func(w *csv.Writer) error {
			for _, o := range ds.Observations {
				if err := w.Write(observationRecord(o)); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return []File{bFile, oFile}, nil
}

func (e *Exporter) writeCSVFile(name string, header []string, rows int, body func(*csv.Writer) error) (File, error) {
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return File{}, fmt.Errorf("export: create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return File{}, fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := body(w); err != nil {
		return File{}, fmt.Errorf("export: write %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return File{}, fmt.Errorf("export: flush %s: %w", name, err)
	}
	return e.stat(path, rows)
}

func (e *Exporter) writeJSON(ds *generator.Dataset, stamp string) ([]File, error) {
	path := filepath.Join(e.dir, "dataset_"+stamp+".json")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create json: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("export: encode json: %w", err)
	}
	file, err := e.stat(path, len(ds.Buildings)+len(ds.Observations))
	if err != nil {
		return nil, err
	}
	return []File{file}, nil
}

func (e *Exporter) stat(path string, rows int) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("export: stat %s: %w", path, err)
	}
	return File{Path: path, SizeBytes: fi.Size(), Rows: rows}, nil
}
