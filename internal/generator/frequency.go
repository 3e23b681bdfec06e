package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedFrequency is returned for tokens no parser understands.
var ErrUnsupportedFrequency = errors.New("generator: unsupported frequency")

// Frequency is a sampling interval for generated observations.
type Frequency struct {
	token string
	// step is the fixed duration between samples; zero means the step is
	// calendar-based (whole months).
	step   time.Duration
	months int
}

// Predefined sampling frequencies.
var (
	FreqQuarterHour = Frequency{token: "15T", step: 15 * time.Minute}
	FreqHalfHour    = Frequency{token: "30T", step: 30 * time.Minute}
	FreqHourly      = Frequency{token: "H", step: time.Hour}
	FreqDaily       = Frequency{token: "D", step: 24 * time.Hour}
	FreqWeekly      = Frequency{token: "W", step: 7 * 24 * time.Hour}
	FreqMonthly     = Frequency{token: "M", months: 1}
)

// Frequencies lists the supported tokens in ascending step order.
func Frequencies() []string {
	return []string{"15T", "30T", "H", "D", "W", "M"}
}

// ParseFrequency resolves a frequency string. The canonical tokens are
// tried first, then common spellings, then Go duration syntax, so "H",
// "hourly" and "1h" all mean the same thing.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "15T", "15MIN":
		return FreqQuarterHour, nil
	case "30T", "30MIN":
		return FreqHalfHour, nil
	case "H", "1H", "HOURLY":
		return FreqHourly, nil
	case "D", "1D", "DAILY":
		return FreqDaily, nil
	case "W", "1W", "WEEKLY":
		return FreqWeekly, nil
	case "M", "MONTHLY":
		return FreqMonthly, nil
	}

	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 15*time.Minute || d > 31*24*time.Hour {
		return Frequency{}, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
	}
	return Frequency{token: s, step: d}, nil
}

// String returns the token the frequency was parsed from.
func (f Frequency) String() string { return f.token }

// Next advances a timestamp by one sampling step.
func (f Frequency) Next(t time.Time) time.Time {
	if f.months > 0 {
		return t.AddDate(0, f.months, 0)
	}
	return t.Add(f.step)
}

// Hours returns the number of hours one step covers starting at t.
func (f Frequency) Hours(t time.Time) float64 {
	return f.Next(t).Sub(t).Hours()
}
