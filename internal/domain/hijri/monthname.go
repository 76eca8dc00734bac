package hijri

import "strings"

// monthNameTable maps normalized transliterations to month numbers. The
// ACJU publishes month names in varying romanizations, so each month
// carries the spellings observed in past calendars. Keys are lowercase
// with everything but letters stripped.
var monthNameTable = map[string]int{
	"muharram":        1,
	"muharramulharam": 1,
	"moharram":        1,

	"safar":  2,
	"saffar": 2,
	"safr":   2,

	"rabeeunilawwal": 3,
	"rabiulawwal":    3,
	"rabialawwal":    3,
	"rabiulawal":     3,

	"rabeeuniththaani": 4,
	"rabiulthani":      4,
	"rabialthani":      4,
	"rabiulakhir":      4,
	"rabiuththani":     4,

	"jumaadaloola": 5,
	"jumadalula":   5,
	"jumadalawwal": 5,
	"jumadaloola":  5,

	"jumaadalaakhirah": 6,
	"jumadalakhirah":   6,
	"jumadalthani":     6,
	"jumadassani":      6,

	"rajab":  7,
	"rajjab": 7,

	"shaban":  8,
	"shabaan": 8,
	"shahban": 8,

	"ramadan":  9,
	"ramadhan": 9,
	"ramazan":  9,
	"ramalan":  9,

	"shawwal": 10,
	"shawal":  10,
	"shavval": 10,

	"dhulqadah":  11,
	"dhulqadha":  11,
	"zulqadah":   11,
	"thulqahdha": 11,
	"dhulqaadah": 11,

	"dhulhijjah": 12,
	"dhulhijja":  12,
	"zulhijjah":  12,
	"thulhajj":   12,
}

// MonthNumber resolves a raw transliterated month name to its 1-12 number.
// The second return is false when the spelling is not in the table; callers
// fall back to month 1 and log the raw string.
func MonthNumber(raw string) (int, bool) {
	key := normalizeMonthName(raw)
	if key == "" {
		return 1, false
	}
	if n, ok := monthNameTable[key]; ok {
		return n, true
	}
	return 1, false
}

func normalizeMonthName(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
