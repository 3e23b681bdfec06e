package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRegion indicates a degenerate or out-of-range bounding box.
	ErrInvalidRegion = errors.New("geo: invalid region")
)

// Region is a rectangular latitude/longitude bounding box.
type Region struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// NewRegion validates and constructs a region.
func NewRegion(south, west, north, east float64) (Region, error) {
	r := Region{South: south, West: west, North: north, East: east}
	if err := r.Validate(); err != nil {
		return Region{}, err
	}
	return r, nil
}

// Validate checks ordering and world bounds.
func (r Region) Validate() error {
	if r.South >= r.North {
		return fmt.Errorf("%w: south %.6f must be below north %.6f", ErrInvalidRegion, r.South, r.North)
	}
	if r.West >= r.East {
		return fmt.Errorf("%w: west %.6f must be west of east %.6f", ErrInvalidRegion, r.West, r.East)
	}
	if r.South < -90 || r.North > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidRegion)
	}
	if r.West < -180 || r.East > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidRegion)
	}
	return nil
}

// Area returns the region area in square degrees.
func (r Region) Area() float64 {
	return (r.North - r.South) * (r.East - r.West)
}

// Contains reports whether a point falls inside the region.
func (r Region) Contains(lat, lon float64) bool {
	return lat >= r.South && lat <= r.North && lon >= r.West && lon <= r.East
}

// Key renders the region at fixed precision for cache keys. Six decimals is
// roughly 10cm at the equator, enough that two logically equal regions never
// drift onto different keys.
func (r Region) Key() string {
	return fmt.Sprintf("%.6f_%.6f_%.6f_%.6f", r.South, r.West, r.North, r.East)
}

func (r Region) String() string {
	return fmt.Sprintf("(%.4f,%.4f,%.4f,%.4f)", r.South, r.West, r.North, r.East)
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusM = 6371000
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}
