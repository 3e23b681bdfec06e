package buildings

import (
	"fmt"
	"math"

	"synthgrid/internal/geo"
	"synthgrid/internal/overpass"
)

// DropReason says why the normalizer rejected an element.
type DropReason string

const (
	DropNoPosition DropReason = "no_position"
	DropOutside    DropReason = "outside_region"
)

// NormalizeResult carries the kept buildings plus drop accounting.
type NormalizeResult struct {
	Buildings []Building
	Dropped   map[DropReason]int
}

// Normalize converts raw elements into building records. An element needs a
// usable position: the Overpass-computed center when present, otherwise the
// mean of at least three footprint vertices. Positions outside the envelope
// are rejected, which filters the stray global hits Overpass mirrors
// occasionally return.
func Normalize(elements []overpass.Element, envelope geo.Region) NormalizeResult {
	res := NormalizeResult{
		Buildings: make([]Building, 0, len(elements)),
		Dropped:   make(map[DropReason]int),
	}
	for _, el := range elements {
		lat, lon, ok := position(el)
		if !ok {
			res.Dropped[DropNoPosition]++
			continue
		}
		if !envelope.Contains(lat, lon) {
			res.Dropped[DropOutside]++
			continue
		}

		b := Building{
			ID:      fmt.Sprintf("osm_%s_%d", el.Type, el.ID),
			Type:    Classify(el.Tags),
			RawType: el.Tags["building"],
			Lat:     lat,
			Lon:     lon,
			Name:    el.Tags["name"],
			Street:  el.Tags["addr:street"],
			City:    el.Tags["addr:city"],
			Source:  SourceOSM,
		}
		if area, ok := footprintArea(el); ok {
			b.AreaM2 = &area
		}
		if levels, ok := el.NumericTag("building:levels", "levels"); ok && levels > 0 {
			n := int(levels)
			b.Levels = &n
		}
		res.Buildings = append(res.Buildings, b)
	}
	return res
}

func position(el overpass.Element) (lat, lon float64, ok bool) {
	if el.Center != nil {
		return el.Center.Lat, el.Center.Lon, true
	}
	if el.Lat != 0 || el.Lon != 0 {
		return el.Lat, el.Lon, true
	}
	if len(el.Geometry) < 3 {
		return 0, 0, false
	}
	for _, p := range el.Geometry {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(el.Geometry))
	return lat / n, lon / n, true
}

// footprintArea computes the polygon area in square meters. An explicit
// area tag wins; otherwise the shoelace formula runs on the footprint in
// degree space and the result is scaled with a local flat-earth
// approximation, which is accurate to well under a percent at building
// scale.
func footprintArea(el overpass.Element) (float64, bool) {
	if tagged, ok := el.NumericTag("building:area", "area"); ok && tagged > 0 {
		return tagged, true
	}
	pts := el.Geometry
	if len(pts) < 3 {
		return 0, false
	}

	var sum, latMid float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].Lon*pts[j].Lat - pts[j].Lon*pts[i].Lat
		latMid += pts[i].Lat
	}
	latMid = latMid / float64(len(pts)) * math.Pi / 180

	// Meters per degree at the footprint's mid latitude.
	kx := 111132.92 - 559.82*math.Cos(2*latMid)
	ky := 111412.84 * math.Cos(latMid)

	area := math.Abs(sum) / 2 * kx * ky
	if area <= 0 {
		return 0, false
	}
	return area, true
}
