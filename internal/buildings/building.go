// Package buildings turns raw OpenStreetMap elements into the normalized
// building records the rest of the pipeline consumes.
package buildings

// Type is the consumption category a building is generated against.
type Type string

const (
	TypeResidential Type = "residential"
	TypeCommercial  Type = "commercial"
	TypeIndustrial  Type = "industrial"
	TypePublic      Type = "public"
	TypeOther       Type = "other"
)

// Types lists the categories in their canonical order.
func Types() []Type {
	return []Type{TypeResidential, TypeCommercial, TypeIndustrial, TypePublic, TypeOther}
}

// ParseType maps a free-form string onto a known category.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeResidential, TypeCommercial, TypeIndustrial, TypePublic, TypeOther:
		return Type(s), true
	}
	return "", false
}

// Source records where a building record came from.
type Source string

const (
	SourceOSM       Source = "osm"
	SourceSynthetic Source = "synthetic"
)

// Building is a normalized building footprint ready for generation.
type Building struct {
	ID      string  `json:"id"`
	Type    Type    `json:"building_type"`
	RawType string  `json:"raw_type,omitempty"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`

	AreaM2 *float64 `json:"area_m2,omitempty"`
	Levels *int     `json:"levels,omitempty"`
	Name   string   `json:"name,omitempty"`
	Street string   `json:"street,omitempty"`
	City   string   `json:"city,omitempty"`

	Source Source `json:"source"`
}

// Summary aggregates a building set per category.
type Summary struct {
	Total    int          `json:"total"`
	ByType   map[Type]int `json:"by_type"`
	WithArea int          `json:"with_area"`
}

// Summarize counts buildings per category.
func Summarize(list []Building) Summary {
	s := Summary{ByType: make(map[Type]int)}
	for _, b := range list {
		s.Total++
		s.ByType[b.Type]++
		if b.AreaM2 != nil {
			s.WithArea++
		}
	}
	return s
}
