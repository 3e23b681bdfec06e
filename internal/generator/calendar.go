package generator

import "time"

// ramadanWindows approximates the fasting month per Gregorian year. The
// Islamic calendar drifts about eleven days a year, so the window is stored
// per year rather than computed.
var ramadanWindows = map[int][2]time.Time{
	2024: {date(2024, 3, 10), date(2024, 4, 9)},
	2025: {date(2025, 2, 28), date(2025, 3, 30)},
	2026: {date(2026, 2, 17), date(2026, 3, 19)},
}

// fixedHolidays lists nationwide public holidays with fixed dates: New
// Year, Federal Territory Day, Labour Day, Agong's birthday, Merdeka,
// Malaysia Day, Christmas.
var fixedHolidays = [][2]int{
	{1, 1}, {2, 1}, {5, 1}, {6, 5}, {8, 31}, {9, 16}, {12, 25},
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// isRamadan reports whether t falls inside a known fasting window.
func isRamadan(t time.Time) bool {
	window, ok := ramadanWindows[t.Year()]
	if !ok {
		return false
	}
	day := date(t.Year(), int(t.Month()), t.Day())
	return !day.Before(window[0]) && !day.After(window[1])
}

// isHoliday reports whether t is a fixed nationwide public holiday.
func isHoliday(t time.Time) bool {
	for _, h := range fixedHolidays {
		if int(t.Month()) == h[0] && t.Day() == h[1] {
			return true
		}
	}
	return false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
