// Package generator produces synthetic electricity consumption profiles for
// Malaysian buildings. The model is multiplicative: a per-type daily base
// load shaped by hourly, seasonal, calendar and climate factors, scaled by
// building attributes and perturbed with gaussian noise.
package generator

import (
	"math"

	"synthgrid/internal/buildings"
)

// baseLoads is the daily base consumption in kWh per building category.
var baseLoads = map[buildings.Type]float64{
	buildings.TypeResidential: 25,
	buildings.TypeCommercial:  120,
	buildings.TypeIndustrial:  400,
	buildings.TypePublic:      80,
}

// BaseDailyLoads returns the daily base consumption in kWh per category.
func BaseDailyLoads() map[buildings.Type]float64 {
	out := make(map[buildings.Type]float64, len(baseLoads))
	for bt, load := range baseLoads {
		out[bt] = load
	}
	return out
}

// hourlyCurves gives the relative load shape over the day per category.
var hourlyCurves = map[buildings.Type][24]float64{
	buildings.TypeResidential: {
		0.3, 0.2, 0.2, 0.2, 0.2, 0.3,
		0.6, 0.9, 0.7, 0.5, 0.4, 0.4,
		0.4, 0.4, 0.4, 0.4, 0.5, 0.6,
		0.8, 1.0, 1.0, 0.9, 0.7, 0.5,
	},
	buildings.TypeCommercial: {
		0.1, 0.1, 0.1, 0.1, 0.1, 0.2,
		0.3, 0.4, 0.6, 1.0, 1.0, 0.9,
		0.8, 0.9, 1.0, 1.0, 0.9, 0.8,
		0.6, 0.4, 0.3, 0.2, 0.1, 0.1,
	},
	buildings.TypeIndustrial: {
		0.6, 0.6, 0.5, 0.5, 0.5, 0.6,
		0.7, 0.8, 1.0, 1.0, 1.0, 0.9,
		0.8, 0.9, 1.0, 1.0, 0.9, 0.8,
		0.7, 0.7, 0.6, 0.6, 0.6, 0.6,
	},
	buildings.TypePublic: {
		0.2, 0.2, 0.2, 0.2, 0.2, 0.3,
		0.4, 0.6, 0.8, 1.0, 1.0, 0.9,
		0.8, 0.9, 1.0, 1.0, 0.9, 0.7,
		0.5, 0.4, 0.3, 0.3, 0.2, 0.2,
	},
}

// seasonalFactors tracks the monsoon cycle: hotter inter-monsoon months
// drive air conditioning up, the year-end wet season cools things down.
var seasonalFactors = [13]float64{
	0, // unused, months are 1-based
	0.85, 0.90, 1.15, 1.25, 1.20, 1.00,
	0.95, 0.95, 1.10, 1.15, 0.95, 0.85,
}

// weekendFactors applies on Saturdays and Sundays.
var weekendFactors = map[buildings.Type]float64{
	buildings.TypeResidential: 1.2,
	buildings.TypeCommercial:  0.3,
	buildings.TypeIndustrial:  0.8,
	buildings.TypePublic:      0.6,
}

// ramadanFactors applies during the fasting month.
var ramadanFactors = map[buildings.Type]float64{
	buildings.TypeResidential: 0.85,
	buildings.TypeCommercial:  0.7,
	buildings.TypeIndustrial:  0.9,
	buildings.TypePublic:      0.8,
}

// holidayFactors applies on fixed public holidays.
var holidayFactors = map[buildings.Type]float64{
	buildings.TypeResidential: 1.1,
	buildings.TypeCommercial:  0.2,
	buildings.TypePublic:      0.3,
}

// noiseLevels is the per-type standard deviation of the gaussian noise
// multiplier.
var noiseLevels = map[buildings.Type]float64{
	buildings.TypeResidential: 0.15,
	buildings.TypeCommercial:  0.10,
	buildings.TypeIndustrial:  0.08,
	buildings.TypePublic:      0.12,
}

// monthBaseTemps is the typical ambient temperature in Celsius per month.
var monthBaseTemps = [13]float64{
	0,
	26, 27, 29, 30, 30, 29,
	28, 28, 29, 29, 28, 26,
}

// acDependency says how much of a category's load follows cooling demand.
var acDependency = map[buildings.Type]float64{
	buildings.TypeResidential: 0.6,
	buildings.TypeCommercial:  0.75,
	buildings.TypeIndustrial:  0.25,
	buildings.TypePublic:      0.65,
}

// temperatureAt estimates the ambient temperature for an hour of a month.
func temperatureAt(month, hour int) float64 {
	t := monthBaseTemps[month]
	switch {
	case hour >= 6 && hour <= 8:
		t -= 1
	case hour >= 14 && hour <= 16:
		t += 3
	case hour >= 22 || hour <= 5:
		t -= 3
	}
	return t
}

// climateFactor scales load with cooling demand. Above 30 C every extra
// degree adds noticeably; mild nights pull the load down, floored at 0.5.
func climateFactor(temp float64, bt buildings.Type) float64 {
	ac := acDependency[bt]
	var f float64
	switch {
	case temp >= 30:
		f = 1 + (temp-30)*ac*0.05
	case temp >= 27:
		f = 1 + (temp-27)*ac*0.03
	case temp >= 24:
		f = 1.0
	default:
		f = 1 - (24-temp)*ac*0.02
	}
	return math.Max(f, 0.5)
}

// curveSums caches the per-type sum of the hourly curve so a full day of
// hourly shares adds up to the daily base.
var curveSums = func() map[buildings.Type]float64 {
	sums := make(map[buildings.Type]float64, len(hourlyCurves))
	for bt, curve := range hourlyCurves {
		var s float64
		for _, v := range curve {
			s += v
		}
		sums[bt] = s
	}
	return sums
}()

// normalType maps the open category set onto one the pattern tables cover.
func normalType(bt buildings.Type) buildings.Type {
	if _, ok := baseLoads[bt]; ok {
		return bt
	}
	return buildings.TypeResidential
}
