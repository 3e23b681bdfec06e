package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"synthgrid/internal/generator"
)

func (e *Exporter) writeExcel(ds *generator.Dataset, stamp string) ([]File, error) {
	f := excelize.NewFile()
	buildingsSheet := "buildings"
	seriesSheet := "timeseries"
	f.SetSheetName("Sheet1", buildingsSheet)
	f.NewSheet(seriesSheet)

	for i, col := range buildingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(buildingsSheet, cell, col)
	}
	for r, b := range ds.Buildings {
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("A%d", r+2), b.ID)
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("B%d", r+2), string(b.Type))
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("C%d", r+2), b.Lat)
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("D%d", r+2), b.Lon)
		if b.AreaM2 != nil {
			_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("E%d", r+2), *b.AreaM2)
		}
		if b.Levels != nil {
			_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("F%d", r+2), *b.Levels)
		}
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("G%d", r+2), b.Name)
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("H%d", r+2), b.Street)
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("I%d", r+2), b.City)
		_ = f.SetCellValue(buildingsSheet, fmt.Sprintf("J%d", r+2), string(b.Source))
	}

	for i, col := range observationColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(seriesSheet, cell, col)
	}
	for r, o := range ds.Observations {
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("A%d", r+2), o.BuildingID)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("B%d", r+2), o.Timestamp.UTC().Format(time.RFC3339))
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("C%d", r+2), o.ConsumptionKWh)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("D%d", r+2), o.TemperatureC)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("E%d", r+2), o.QualityScore)
		_ = f.SetCellValue(seriesSheet, fmt.Sprintf("F%d", r+2), o.Status)
	}

	path := filepath.Join(e.dir, "dataset_"+stamp+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("export: save xlsx: %w", err)
	}
	file, err := e.stat(path, len(ds.Buildings)+len(ds.Observations))
	if err != nil {
		return nil, err
	}
	return []File{file}, nil
}
