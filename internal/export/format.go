// Package export writes generated datasets to disk in the formats the API
// offers for download.
package export

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedFormat is returned for formats no exporter implements.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Format names an output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
	FormatExcel   Format = "excel"
)

// Formats lists the supported encodings.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatParquet, FormatExcel}
}

// ParseFormat resolves a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatParquet, FormatExcel:
		return Format(s), nil
	case "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// File describes one written output file.
type File struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Rows      int    `json:"rows"`
}

// Manifest describes everything one export produced.
type Manifest struct {
	Format    Format    `json:"format"`
	Files     []File    `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}
