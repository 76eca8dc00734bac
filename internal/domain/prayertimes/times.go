package prayertimes

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultIqamahOffsets are the per-prayer minutes added to azan times when
// the upstream supplies azan only.
var defaultIqamahOffsets = map[string]int{
	"fajr":    20,
	"dhuhr":   10,
	"asr":     10,
	"maghrib": 5,
	"isha":    10,
}

// AddMinutes shifts an HH:MM clock string by n minutes, wrapping past
// midnight in either direction. Unparseable input is returned unchanged.
func AddMinutes(hhmm string, n int) string {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)
	if len(parts) != 2 {
		return hhmm
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return hhmm
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return hhmm
	}
	total := (hours*60 + minutes + n) % 1440
	if total < 0 {
		total += 1440
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// iqamahFromAzan fills the five iqamah slots by offsetting azan times.
// gaps overrides the default offset per prayer where present.
func iqamahFromAzan(rec *Record, gaps map[string]int) {
	rec.FajrIqamah = AddMinutes(rec.FajrAzan, gapFor(gaps, "fajr"))
	rec.DhuhrIqamah = AddMinutes(rec.DhuhrAzan, gapFor(gaps, "dhuhr"))
	rec.AsrIqamah = AddMinutes(rec.AsrAzan, gapFor(gaps, "asr"))
	rec.MaghribIqamah = AddMinutes(rec.MaghribAzan, gapFor(gaps, "maghrib"))
	rec.IshaIqamah = AddMinutes(rec.IshaAzan, gapFor(gaps, "isha"))
}

func gapFor(gaps map[string]int, prayer string) int {
	if gaps != nil {
		if gap, ok := gaps[prayer]; ok {
			return gap
		}
	}
	return defaultIqamahOffsets[prayer]
}
