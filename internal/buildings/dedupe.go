package buildings

import "fmt"

// Dedupe removes duplicate buildings, keeping the first occurrence. The
// OSM ID is the primary identity; records without one collapse onto their
// centroid rounded to six decimal places, roughly 0.1 m, which merges the
// same footprint returned by different mirrors.
func Dedupe(list []Building) []Building {
	seen := make(map[string]bool, len(list))
	out := make([]Building, 0, len(list))
	for _, b := range list {
		key := b.ID
		if key == "" {
			key = fmt.Sprintf("@%.6f_%.6f", b.Lat, b.Lon)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}
