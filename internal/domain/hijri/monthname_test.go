package hijri

import "testing"

func TestMonthNumberKnownSpellings(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"Muharram", 1},
		{"Muharramul Haram", 1},
		{"Safar", 2},
		{"Rabee`unil Awwal", 3},
		{"Rabi-ul-Awwal", 3},
		{"Rabee`unith Thaani", 4},
		{"Rabi-ul-Akhir", 4},
		{"Jumaadal Oola", 5},
		{"Jumada al-Ula", 5},
		{"Jumaadal Aakhirah", 6},
		{"RAJAB", 7},
		{"Sha'ban", 8},
		{"Ramadan", 9},
		{"Ramadhan", 9},
		{"Shawwal", 10},
		{"Dhul Qa'dah", 11},
		{"Thul Qahdha", 11},
		{"Dhul Hijjah", 12},
		{"  dhul  hijja  ", 12},
	}
	for _, tc := range tests {
		got, ok := MonthNumber(tc.raw)
		if !ok {
			t.Fatalf("MonthNumber(%q) not recognized", tc.raw)
		}
		if got != tc.want {
			t.Fatalf("MonthNumber(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestMonthNumberUnknownSpelling(t *testing.T) {
	for _, raw := range []string{"", "   ", "Frumentum", "13", "Muharramx"} {
		got, ok := MonthNumber(raw)
		if ok {
			t.Fatalf("MonthNumber(%q) unexpectedly recognized as %d", raw, got)
		}
		if got != 1 {
			t.Fatalf("MonthNumber(%q) fallback = %d, want 1", raw, got)
		}
	}
}
