package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// MalaysiaBounds is the country's bounding envelope. Buildings whose
// centroid falls outside it are rejected during normalization.
var MalaysiaBounds = Region{South: 0.855, West: 99.644, North: 7.363, East: 119.267}

// ErrUnknownZone indicates a zone descriptor that matched nothing.
var ErrUnknownZone = errors.New("geo: unknown zone")

// City is a major Malaysian city with an adaptive retrieval radius.
type City struct {
	Name      string  `json:"name"`
	State     string  `json:"state"`
	StateCode string  `json:"state_code"`
	Lat       float64 `json:"latitude"`
	Lon       float64 `json:"longitude"`
	RadiusM   int     `json:"radius_m"`
}

// State is a Malaysian state or federal territory with its bounding box.
type State struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Bounds Region `json:"bounds"`
}

const (
	radiusLarge  = 8000
	radiusMedium = 5000
	radiusSmall  = 3000
)

var states = []State{
	{Name: "Johor", Code: "JHR", Bounds: Region{South: 1.20, West: 102.45, North: 2.80, East: 104.40}},
	{Name: "Kedah", Code: "KDH", Bounds: Region{South: 5.05, West: 99.64, North: 6.70, East: 101.15}},
	{Name: "Kelantan", Code: "KTN", Bounds: Region{South: 4.55, West: 101.30, North: 6.25, East: 102.65}},
	{Name: "Kuala Lumpur", Code: "KUL", Bounds: Region{South: 3.03, West: 101.58, North: 3.25, East: 101.77}},
	{Name: "Labuan", Code: "LBN", Bounds: Region{South: 5.20, West: 115.13, North: 5.40, East: 115.33}},
	{Name: "Malacca", Code: "MLK", Bounds: Region{South: 2.05, West: 102.00, North: 2.50, East: 102.60}},
	{Name: "Negeri Sembilan", Code: "NSN", Bounds: Region{South: 2.40, West: 101.70, North: 3.25, East: 102.60}},
	{Name: "Pahang", Code: "PHG", Bounds: Region{South: 2.45, West: 101.30, North: 4.80, East: 103.60}},
	{Name: "Penang", Code: "PNG", Bounds: Region{South: 5.13, West: 100.13, North: 5.60, East: 100.55}},
	{Name: "Perak", Code: "PRK", Bounds: Region{South: 3.65, West: 100.35, North: 5.90, East: 101.95}},
	{Name: "Perlis", Code: "PLS", Bounds: Region{South: 6.35, West: 100.10, North: 6.75, East: 100.45}},
	{Name: "Putrajaya", Code: "PJY", Bounds: Region{South: 2.88, West: 101.63, North: 2.99, East: 101.74}},
	{Name: "Sabah", Code: "SBH", Bounds: Region{South: 4.05, West: 115.15, North: 7.37, East: 119.27}},
	{Name: "Sarawak", Code: "SWK", Bounds: Region{South: 0.86, West: 109.55, North: 5.10, East: 115.65}},
	{Name: "Selangor", Code: "SGR", Bounds: Region{South: 2.55, West: 100.95, North: 3.85, East: 101.95}},
	{Name: "Terengganu", Code: "TRG", Bounds: Region{South: 3.95, West: 102.55, North: 5.85, East: 103.70}},
}

var cities = []City{
	{Name: "Kuala Lumpur", State: "Kuala Lumpur", StateCode: "KUL", Lat: 3.139, Lon: 101.687, RadiusM: radiusLarge},
	{Name: "George Town", State: "Penang", StateCode: "PNG", Lat: 5.414, Lon: 100.333, RadiusM: radiusLarge},
	{Name: "Johor Bahru", State: "Johor", StateCode: "JHR", Lat: 1.465, Lon: 103.747, RadiusM: radiusLarge},
	{Name: "Ipoh", State: "Perak", StateCode: "PRK", Lat: 4.584, Lon: 101.077, RadiusM: radiusMedium},
	{Name: "Petaling Jaya", State: "Selangor", StateCode: "SGR", Lat: 3.107, Lon: 101.607, RadiusM: radiusMedium},
	{Name: "Shah Alam", State: "Selangor", StateCode: "SGR", Lat: 3.085, Lon: 101.532, RadiusM: radiusMedium},
	{Name: "Subang Jaya", State: "Selangor", StateCode: "SGR", Lat: 3.150, Lon: 101.581, RadiusM: radiusSmall},
	{Name: "Klang", State: "Selangor", StateCode: "SGR", Lat: 3.045, Lon: 101.445, RadiusM: radiusSmall},
	{Name: "Kajang", State: "Selangor", StateCode: "SGR", Lat: 2.992, Lon: 101.791, RadiusM: radiusSmall},
	{Name: "Seremban", State: "Negeri Sembilan", StateCode: "NSN", Lat: 2.726, Lon: 101.938, RadiusM: radiusSmall},
	{Name: "Malacca", State: "Malacca", StateCode: "MLK", Lat: 2.197, Lon: 102.250, RadiusM: radiusSmall},
	{Name: "Alor Setar", State: "Kedah", StateCode: "KDH", Lat: 6.121, Lon: 100.366, RadiusM: radiusSmall},
	{Name: "Kota Bharu", State: "Kelantan", StateCode: "KTN", Lat: 6.133, Lon: 102.238, RadiusM: radiusSmall},
	{Name: "Kuantan", State: "Pahang", StateCode: "PHG", Lat: 3.807, Lon: 103.326, RadiusM: radiusSmall},
	{Name: "Kuching", State: "Sarawak", StateCode: "SWK", Lat: 1.553, Lon: 110.359, RadiusM: radiusMedium},
	{Name: "Kota Kinabalu", State: "Sabah", StateCode: "SBH", Lat: 5.979, Lon: 116.075, RadiusM: radiusMedium},
	{Name: "Sandakan", State: "Sabah", StateCode: "SBH", Lat: 5.840, Lon: 118.117, RadiusM: radiusSmall},
	{Name: "Tawau", State: "Sabah", StateCode: "SBH", Lat: 4.185, Lon: 117.893, RadiusM: radiusSmall},
	{Name: "Miri", State: "Sarawak", StateCode: "SWK", Lat: 4.405, Lon: 113.987, RadiusM: radiusSmall},
}

// States returns all states, sorted by name.
func States() []State {
	out := append([]State(nil), states...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Cities returns all registered cities, sorted by name.
func Cities() []City {
	out := append([]City(nil), cities...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// normalizeZoneKey lowercases a descriptor and folds snake_case spellings
// like "kuala_lumpur" onto the display names.
func normalizeZoneKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(key, "_", " ")
}

// LookupState finds a state by name or code, case-insensitively.
func LookupState(name string) (State, bool) {
	key := normalizeZoneKey(name)
	for _, s := range states {
		if strings.ToLower(s.Name) == key || strings.ToLower(s.Code) == key {
			return s, true
		}
	}
	return State{}, false
}

// LookupCity finds a city by name, case-insensitively.
func LookupCity(name string) (City, bool) {
	key := normalizeZoneKey(name)
	for _, c := range cities {
		if strings.ToLower(c.Name) == key {
			return c, true
		}
	}
	return City{}, false
}

// Bounds approximates the city's retrieval area as a bounding box around its
// center. The degree offsets use the same flat-earth scale as area
// estimation; accuracy at city scale is more than sufficient.
func (c City) Bounds() Region {
	latOffset := float64(c.RadiusM) / 111320.0
	lonOffset := float64(c.RadiusM) / (111320.0 * cosDeg(c.Lat))
	return Region{
		South: c.Lat - latOffset,
		West:  c.Lon - lonOffset,
		North: c.Lat + latOffset,
		East:  c.Lon + lonOffset,
	}
}

// ResolveZone resolves a zone descriptor to a region. Descriptors are tried
// in order: the whole country, a state name or code, a city name, then an
// explicit "south,west,north,east" bounding box.
func ResolveZone(descriptor string) (Region, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return Region{}, fmt.Errorf("%w: empty descriptor", ErrUnknownZone)
	}
	if strings.EqualFold(descriptor, "malaysia") || strings.EqualFold(descriptor, "country") {
		return MalaysiaBounds, nil
	}
	if s, ok := LookupState(descriptor); ok {
		return s.Bounds, nil
	}
	if c, ok := LookupCity(descriptor); ok {
		return c.Bounds(), nil
	}
	if r, err := ParseBBox(descriptor); err == nil {
		return r, nil
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownZone, descriptor)
}

// ParseBBox parses a "south,west,north,east" descriptor.
func ParseBBox(value string) (Region, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w: bbox needs 4 comma-separated values", ErrInvalidRegion)
	}
	coords := make([]float64, 4)
	for i, part := range parts {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Region{}, fmt.Errorf("%w: bad coordinate %q", ErrInvalidRegion, part)
		}
		coords[i] = parsed
	}
	return NewRegion(coords[0], coords[1], coords[2], coords[3])
}

func cosDeg(deg float64) float64 {
	c := math.Cos(deg * math.Pi / 180)
	if c < 0.01 {
		return 0.01
	}
	return c
}
