package generator

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"synthgrid/internal/buildings"
	"synthgrid/internal/geo"
)

func klRegion() geo.Region {
	return geo.Region{South: 3.0, West: 101.5, North: 3.3, East: 101.8}
}

func sampleBuildings(n int) []buildings.Building {
	rng := rand.New(rand.NewSource(7))
	return SyntheticBuildings(rng, klRegion(), "KUL", n)
}

func TestGenerateConsumptionNeverNegative(t *testing.T) {
	g := New(1)
	ds, err := g.Generate(Request{
		Buildings: sampleBuildings(20),
		Start:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Frequency: FreqHourly,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ds.Observations) != 20*7*24 {
		t.Fatalf("got %d observations, want %d", len(ds.Observations), 20*7*24)
	}
	for _, obs := range ds.Observations {
		if obs.ConsumptionKWh < 0 {
			t.Fatalf("negative consumption %f at %s", obs.ConsumptionKWh, obs.Timestamp)
		}
		if obs.QualityScore < 95 || obs.QualityScore > 100 {
			t.Fatalf("quality %f outside [95,100]", obs.QualityScore)
		}
		if obs.Status != StatusValid {
			t.Fatalf("status = %s, want valid", obs.Status)
		}
	}
}

func TestGenerateDeterministicWithFixedSeed(t *testing.T) {
	req := Request{
		Buildings: sampleBuildings(5),
		Start:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Frequency: FreqHourly,
	}
	a, err := New(42).Generate(req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := New(42).Generate(req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(a.Observations) != len(b.Observations) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Observations), len(b.Observations))
	}
	for i := range a.Observations {
		if a.Observations[i].ConsumptionKWh != b.Observations[i].ConsumptionKWh {
			t.Fatalf("observation %d differs: %f vs %f",
				i, a.Observations[i].ConsumptionKWh, b.Observations[i].ConsumptionKWh)
		}
	}
}

func TestGenerateWeekendLiftsResidentialLoad(t *testing.T) {
	area := 150.0
	b := buildings.Building{ID: "MY_KUL_000001", Type: buildings.TypeResidential, AreaM2: &area}

	// Eight full weeks average the per-observation noise well below the
	// 1.2 weekend factor.
	g := New(3)
	ds, err := g.Generate(Request{
		Buildings: []buildings.Building{b},
		Start:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC),
		Frequency: FreqDaily,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ds.Observations) != 56 {
		t.Fatalf("got %d daily observations, want 56", len(ds.Observations))
	}

	var weekday, weekend float64
	var weekdays, weekends int
	for _, obs := range ds.Observations {
		if wd := obs.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend += obs.ConsumptionKWh
			weekends++
		} else {
			weekday += obs.ConsumptionKWh
			weekdays++
		}
	}
	if weekend/float64(weekends) <= weekday/float64(weekdays) {
		t.Fatalf("weekend mean %.2f not above weekday mean %.2f",
			weekend/float64(weekends), weekday/float64(weekdays))
	}
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	g := New(1)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := g.Generate(Request{Buildings: nil, Start: start, End: start.AddDate(0, 0, 1), Frequency: FreqDaily})
	if !errors.Is(err, ErrNoBuildings) {
		t.Fatalf("err = %v, want ErrNoBuildings", err)
	}

	_, err = g.Generate(Request{Buildings: sampleBuildings(1), Start: start, End: start, Frequency: FreqDaily})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}

	_, err = g.Generate(Request{Buildings: sampleBuildings(1), Start: start, End: start.AddDate(4, 0, 0), Frequency: FreqDaily})
	if !errors.Is(err, ErrPeriodTooLong) {
		t.Fatalf("err = %v, want ErrPeriodTooLong", err)
	}

	_, err = g.Generate(Request{Buildings: sampleBuildings(MaxBuildings + 1), Start: start, End: start.AddDate(0, 0, 1), Frequency: FreqDaily})
	if !errors.Is(err, ErrTooManyBuildings) {
		t.Fatalf("err = %v, want ErrTooManyBuildings", err)
	}
}

func TestParseFrequencyOrderedFallback(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"15T", 15 * time.Minute},
		{"30T", 30 * time.Minute},
		{"H", time.Hour},
		{"hourly", time.Hour},
		{"D", 24 * time.Hour},
		{"W", 7 * 24 * time.Hour},
		{"45m", 45 * time.Minute},
		{"2h", 2 * time.Hour},
	}
	for _, tc := range cases {
		f, err := ParseFrequency(tc.in)
		if err != nil {
			t.Fatalf("ParseFrequency(%q): %v", tc.in, err)
		}
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		if got := f.Next(start).Sub(start); got != tc.want {
			t.Errorf("ParseFrequency(%q) step = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFrequency("fortnightly"); !errors.Is(err, ErrUnsupportedFrequency) {
		t.Fatalf("err = %v, want ErrUnsupportedFrequency", err)
	}
	if _, err := ParseFrequency("5m"); !errors.Is(err, ErrUnsupportedFrequency) {
		t.Fatalf("sub-quarter-hour steps must be rejected, got %v", err)
	}
}

func TestParseFrequencyMonthlyUsesCalendarMonths(t *testing.T) {
	f, err := ParseFrequency("M")
	if err != nil {
		t.Fatalf("ParseFrequency: %v", err)
	}
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	next := f.Next(start)
	if next.Month() != time.March {
		// AddDate normalizes Jan 31 + 1 month to March 3.
		t.Fatalf("next = %s", next)
	}
}

func TestSyntheticBuildingsStayInsideRegion(t *testing.T) {
	list := sampleBuildings(200)
	region := klRegion()
	for _, b := range list {
		if !region.Contains(b.Lat, b.Lon) {
			t.Fatalf("building %s at %f,%f outside region", b.ID, b.Lat, b.Lon)
		}
		if b.Source != buildings.SourceSynthetic {
			t.Fatalf("source = %s, want synthetic", b.Source)
		}
		if b.AreaM2 == nil || *b.AreaM2 <= 0 {
			t.Fatalf("building %s has no area", b.ID)
		}
	}
	if list[0].ID != "MY_KUL_000001" {
		t.Fatalf("id = %s, want MY_KUL_000001", list[0].ID)
	}
}

func TestSyntheticBuildingsTypeMixIsPlausible(t *testing.T) {
	list := sampleBuildings(1000)
	counts := make(map[buildings.Type]int)
	for _, b := range list {
		counts[b.Type]++
	}
	if counts[buildings.TypeResidential] < 600 {
		t.Fatalf("residential share %d/1000 too low", counts[buildings.TypeResidential])
	}
	if counts[buildings.TypeCommercial] == 0 || counts[buildings.TypePublic] == 0 || counts[buildings.TypeIndustrial] == 0 {
		t.Fatalf("missing categories in mix: %v", counts)
	}
}
