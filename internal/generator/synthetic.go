package generator

import (
	"fmt"
	"math/rand"

	"synthgrid/internal/buildings"
	"synthgrid/internal/geo"
)

// typeWeights drives the category mix of synthetic building sets, roughly
// matching the Malaysian building stock.
var typeWeights = []struct {
	bt     buildings.Type
	weight float64
}{
	{buildings.TypeResidential, 0.70},
	{buildings.TypeCommercial, 0.15},
	{buildings.TypePublic, 0.10},
	{buildings.TypeIndustrial, 0.05},
}

// areaRanges bounds the synthetic floor area in m2 per category.
var areaRanges = map[buildings.Type][2]float64{
	buildings.TypeResidential: {50, 300},
	buildings.TypeCommercial:  {100, 2000},
	buildings.TypeIndustrial:  {500, 10000},
	buildings.TypePublic:      {200, 3000},
}

// levelRanges bounds the synthetic storey count per category.
var levelRanges = map[buildings.Type][2]int{
	buildings.TypeResidential: {1, 4},
	buildings.TypeCommercial:  {1, 20},
	buildings.TypeIndustrial:  {1, 3},
	buildings.TypePublic:      {1, 10},
}

// SyntheticBuildings fabricates n building records spread uniformly over a
// region. The stateCode becomes part of the id, MY_SGR_000001 style.
func SyntheticBuildings(rng *rand.Rand, region geo.Region, stateCode string, n int) []buildings.Building {
	if stateCode == "" {
		stateCode = "MYS"
	}
	out := make([]buildings.Building, 0, n)
	for i := 0; i < n; i++ {
		bt := pickType(rng)
		ar := areaRanges[bt]
		area := ar[0] + rng.Float64()*(ar[1]-ar[0])
		lr := levelRanges[bt]
		levels := lr[0] + rng.Intn(lr[1]-lr[0]+1)

		out = append(out, buildings.Building{
			ID:     fmt.Sprintf("MY_%s_%06d", stateCode, i+1),
			Type:   bt,
			Lat:    region.South + rng.Float64()*(region.North-region.South),
			Lon:    region.West + rng.Float64()*(region.East-region.West),
			AreaM2: &area,
			Levels: &levels,
			Source: buildings.SourceSynthetic,
		})
	}
	return out
}

func pickType(rng *rand.Rand) buildings.Type {
	r := rng.Float64()
	var acc float64
	for _, tw := range typeWeights {
		acc += tw.weight
		if r < acc {
			return tw.bt
		}
	}
	return buildings.TypeResidential
}

// profile carries the attributes the building factor needs. Attributes a
// real footprint does not provide are drawn once per building so the same
// building keeps the same character across its whole series.
type profile struct {
	building       buildings.Building
	bt             buildings.Type
	ageYears       int
	efficiency     float64
	occupancy      float64
	operatingHours int
}

func newProfile(rng *rand.Rand, b buildings.Building, year int) profile {
	p := profile{
		building:       b,
		bt:             normalType(b.Type),
		ageYears:       year - (1970 + rng.Intn(54)),
		efficiency:     0.7 + rng.Float64()*0.6,
		occupancy:      1 + rng.Float64()*7,
		operatingHours: 8 + rng.Intn(17),
	}
	if p.ageYears < 0 {
		p.ageYears = 0
	}
	return p
}

// buildingFactor scales the base load with the attributes of a specific
// building, floored at 0.3 so no building degenerates to zero.
func (p profile) buildingFactor() float64 {
	f := 1.0
	if p.building.AreaM2 != nil {
		area := *p.building.AreaM2
		switch p.bt {
		case buildings.TypeCommercial:
			if area > 1000 {
				f *= 1.3
			} else if area < 100 {
				f *= 0.7
			}
		case buildings.TypeResidential:
			if area > 200 {
				f *= 1.2
			} else if area < 50 {
				f *= 0.8
			}
		}
	}
	if p.ageYears > 20 {
		f *= 1.15
	} else if p.ageYears < 5 {
		f *= 0.9
	}
	f *= 2.0 - p.efficiency
	f *= 0.7 + p.occupancy*0.1
	if p.operatingHours > 12 {
		f *= 1.2
	} else if p.operatingHours < 8 {
		f *= 0.8
	}
	if f < 0.3 {
		f = 0.3
	}
	return f
}
