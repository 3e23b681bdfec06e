package overpass

import (
	"regexp"
	"strconv"
	"strings"
)

// LatLon is a single vertex of a way geometry.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is the raw Overpass representation of a way or relation carrying a
// building tag. Tags stay an open string map; everything the rest of the
// pipeline needs is lifted into typed fields during normalization.
type Element struct {
	ID       int64             `json:"id"`
	Type     string            `json:"type"`
	Tags     map[string]string `json:"tags"`
	Center   *LatLon           `json:"center,omitempty"`
	Geometry []LatLon          `json:"geometry,omitempty"`
	Lat      float64           `json:"lat,omitempty"`
	Lon      float64           `json:"lon,omitempty"`
}

// Response is the Overpass JSON envelope.
type Response struct {
	Elements []Element `json:"elements"`
}

// Tag returns a tag value or "".
func (e Element) Tag(key string) string {
	if e.Tags == nil {
		return ""
	}
	return e.Tags[key]
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// NumericTag parses a numeric tag value, tolerating unit suffixes such as
// "12 m" or "3;4" the way OSM data tends to arrive. The keys are tried in
// order and the first parseable value wins.
func (e Element) NumericTag(keys ...string) (float64, bool) {
	for _, key := range keys {
		raw := e.Tag(key)
		if raw == "" {
			continue
		}
		if idx := strings.IndexAny(raw, ";,"); idx > 0 {
			raw = raw[:idx]
		}
		cleaned := nonNumeric.ReplaceAllString(raw, "")
		if cleaned == "" {
			continue
		}
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}
