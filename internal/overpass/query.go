package overpass

import (
	"fmt"
	"strings"

	"synthgrid/internal/geo"
)

// defaultBuildingFilter matches building values common in Malaysian OSM
// data; everything else would dominate response size without adding usable
// records.
const defaultBuildingFilter = "yes|house|residential|apartments|terrace|detached|semi_detached|bungalow|" +
	"commercial|retail|office|shop|hotel|school|hospital|mosque|temple|church|" +
	"warehouse|industrial|factory"

// BuildingQuery renders an Overpass QL query for all buildings intersecting
// the region. Geometry is requested as a precomputed center plus full vertex
// list so the normalizer can estimate footprint area.
func BuildingQuery(region geo.Region, timeoutSec int, buildingTypes []string) string {
	filter := defaultBuildingFilter
	if len(buildingTypes) > 0 {
		filter = strings.Join(buildingTypes, "|")
	}
	// Six decimal places keeps the bbox stable across float formatting.
	bbox := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", region.South, region.West, region.North, region.East)
	return fmt.Sprintf(`[out:json][timeout:%d][maxsize:1073741824];
(
  way["building"~"^(%s)$"](%s);
  relation["building"~"^(%s)$"](%s);
);
out center geom;`, timeoutSec, filter, bbox, filter, bbox)
}
