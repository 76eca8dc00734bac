package hijri

// Tabular Hijri arithmetic: odd months have 30 days, even months 29,
// month 12 gains a day in leap years of the 30-year cycle. This is an
// approximation of the observational calendar; real month lengths depend
// on moon sighting, which is why derived dates near month end are never
// trusted without confirmation.

// leapCyclePositions are the leap years within the 30-year cycle,
// 1-indexed by year mod 30 (position 0 counts as 30).
var leapCyclePositions = map[int]struct{}{
	2: {}, 5: {}, 7: {}, 10: {}, 13: {}, 16: {}, 18: {}, 21: {}, 24: {}, 26: {}, 29: {},
}

// IsLeapYear reports whether the Hijri year has a 30-day twelfth month.
func IsLeapYear(year int) bool {
	pos := year % 30
	if pos == 0 {
		pos = 30
	}
	_, ok := leapCyclePositions[pos]
	return ok
}

// MonthLength returns the number of days in the given Hijri month.
func MonthLength(month, year int) int {
	if month == 12 {
		if IsLeapYear(year) {
			return 30
		}
		return 29
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

// AddDays advances a Hijri date by n days, rolling months and years.
// n <= 0 returns the date unchanged.
func AddDays(d Date, n int) Date {
	if n <= 0 {
		return d
	}
	day, month, year := d.Day, d.Month, d.Year
	remaining := n
	for remaining > 0 {
		length := MonthLength(month, year)
		if day+remaining <= length {
			day += remaining
			break
		}
		remaining -= length - day + 1
		day = 1
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return Date{Day: day, Month: month, Year: year}
}
