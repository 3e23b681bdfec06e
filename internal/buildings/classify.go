package buildings

import "strings"

// buildingTagTypes maps common building=* values onto categories.
var buildingTagTypes = map[string]Type{
	"house":         TypeResidential,
	"residential":   TypeResidential,
	"apartments":    TypeResidential,
	"terrace":       TypeResidential,
	"detached":      TypeResidential,
	"semi_detached": TypeResidential,
	"bungalow":      TypeResidential,

	"commercial": TypeCommercial,
	"retail":     TypeCommercial,
	"shop":       TypeCommercial,
	"office":     TypeCommercial,
	"hotel":      TypeCommercial,
	"restaurant": TypeCommercial,

	"industrial":  TypeIndustrial,
	"warehouse":   TypeIndustrial,
	"factory":     TypeIndustrial,
	"manufacture": TypeIndustrial,

	"school":     TypePublic,
	"hospital":   TypePublic,
	"clinic":     TypePublic,
	"government": TypePublic,
	"public":     TypePublic,
	"mosque":     TypePublic,
	"temple":     TypePublic,
	"church":     TypePublic,
}

var publicAmenities = map[string]bool{
	"school":           true,
	"hospital":         true,
	"clinic":           true,
	"place_of_worship": true,
}

// Classify assigns a consumption category from OSM tags. The building=*
// value wins when it is a known category name; otherwise amenity, shop,
// office and industrial tags are consulted, and anything still unresolved
// falls back to residential, which dominates the Malaysian building stock.
func Classify(tags map[string]string) Type {
	raw := strings.ToLower(strings.TrimSpace(tags["building"]))
	if t, ok := buildingTagTypes[raw]; ok {
		return t
	}

	if amenity := strings.ToLower(tags["amenity"]); publicAmenities[amenity] {
		return TypePublic
	}
	if tags["shop"] != "" || tags["office"] != "" {
		return TypeCommercial
	}
	if tags["industrial"] != "" {
		return TypeIndustrial
	}
	return TypeResidential
}
