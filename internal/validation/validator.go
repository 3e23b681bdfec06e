// Package validation scores generated datasets. Validation never fails a
// run: malformed input lowers the score instead of raising an error.
package validation

import (
	"fmt"
	"math"

	"synthgrid/internal/buildings"
	"synthgrid/internal/generator"
)

// MaxConsumption is the upper plausibility bound in kWh for a single
// observation of any category.
const MaxConsumption = 1000

// maxPerType caps what a single observation of a category may plausibly
// consume in one interval.
var maxPerType = map[buildings.Type]float64{
	buildings.TypeResidential: 50,
	buildings.TypeCommercial:  500,
	buildings.TypeIndustrial:  1000,
	buildings.TypePublic:      200,
}

// Score weights. Integrity weighs heaviest: an observation pointing at a
// building that does not exist poisons every downstream join.
const (
	weightCompleteness = 0.3
	weightIntegrity    = 0.4
	weightPlausibility = 0.3
)

// Report summarizes dataset quality on a 0 to 100 scale.
type Report struct {
	OverallScore      float64  `json:"overall_score"`
	CompletenessPct   float64  `json:"completeness_pct"`
	IntegrityPct      float64  `json:"integrity_pct"`
	PlausibilityPct   float64  `json:"plausibility_pct"`
	BuildingsTotal    int      `json:"buildings_total"`
	BuildingsWithData int      `json:"buildings_with_data"`
	Observations      int      `json:"observations"`
	SuspectMarked     int      `json:"suspect_marked"`
	Warnings          []string `json:"warnings,omitempty"`
}

// Validate scores a dataset and marks implausible observations suspect in
// place.
func Validate(ds *generator.Dataset) Report {
	r := Report{BuildingsTotal: len(ds.Buildings)}
	if len(ds.Observations) == 0 {
		r.Warnings = append(r.Warnings, "dataset has no observations")
		return r
	}
	r.Observations = len(ds.Observations)

	known := make(map[string]buildings.Type, len(ds.Buildings))
	for _, b := range ds.Buildings {
		known[b.ID] = b.Type
	}

	var complete, linked, plausible int
	withData := make(map[string]bool)
	for i := range ds.Observations {
		obs := &ds.Observations[i]

		if obs.BuildingID != "" && !obs.Timestamp.IsZero() {
			complete++
		}

		bt, ok := known[obs.BuildingID]
		if ok {
			linked++
			withData[obs.BuildingID] = true
		}

		if plausibleConsumption(obs.ConsumptionKWh, bt, ok) {
			plausible++
		} else {
			obs.Status = generator.StatusSuspect
			r.SuspectMarked++
		}
	}

	n := float64(len(ds.Observations))
	r.CompletenessPct = round1(100 * float64(complete) / n)
	r.IntegrityPct = round1(100 * float64(linked) / n)
	r.PlausibilityPct = round1(100 * float64(plausible) / n)
	r.BuildingsWithData = len(withData)
	r.OverallScore = round1(weightCompleteness*r.CompletenessPct +
		weightIntegrity*r.IntegrityPct +
		weightPlausibility*r.PlausibilityPct)

	if r.IntegrityPct < 100 {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%d observations reference unknown buildings", len(ds.Observations)-linked))
	}
	if r.SuspectMarked > 0 {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%d observations outside plausible consumption bounds", r.SuspectMarked))
	}
	if orphaned := len(ds.Buildings) - r.BuildingsWithData; orphaned > 0 {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%d buildings have no observations", orphaned))
	}
	return r
}

func plausibleConsumption(kwh float64, bt buildings.Type, typed bool) bool {
	if kwh < 0 || kwh > MaxConsumption {
		return false
	}
	if !typed {
		return true
	}
	limit, ok := maxPerType[bt]
	if !ok {
		limit = MaxConsumption
	}
	return kwh <= limit
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
