package geo

import "math"

// Partition tiles a region into a row-major grid of sub-regions, each no
// larger than maxArea square degrees. The tiling is exact (no gaps, no
// overlaps) and deterministic, which keeps cache keys stable across runs.
//
// A region already within the threshold is returned unchanged.
func Partition(r Region, maxArea float64) []Region {
	if maxArea <= 0 || r.Area() <= maxArea {
		return []Region{r}
	}

	side := math.Sqrt(maxArea)
	latSpan := r.North - r.South
	lonSpan := r.East - r.West
	rows := int(math.Ceil(latSpan / side))
	cols := int(math.Ceil(lonSpan / side))
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	cells := make([]Region, 0, rows*cols)
	for i := 0; i < rows; i++ {
		// Cell edges are interpolated from the parent bounds rather than
		// accumulated, so adjacent cells share exact edge coordinates.
		south := r.South + latSpan*float64(i)/float64(rows)
		north := r.South + latSpan*float64(i+1)/float64(rows)
		if i == rows-1 {
			north = r.North
		}
		for j := 0; j < cols; j++ {
			west := r.West + lonSpan*float64(j)/float64(cols)
			east := r.West + lonSpan*float64(j+1)/float64(cols)
			if j == cols-1 {
				east = r.East
			}
			cells = append(cells, Region{South: south, West: west, North: north, East: east})
		}
	}
	return cells
}
