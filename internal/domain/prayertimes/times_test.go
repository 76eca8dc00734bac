package prayertimes

import "testing"

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"04:45", 20, "05:05"},
		{"12:30", 10, "12:40"},
		{"18:55", 5, "19:00"},
		{"23:50", 20, "00:10"},
		{"00:05", -10, "23:55"},
		{"06:00", 0, "06:00"},
		{" 04:45 ", 20, "05:05"},
	}
	for _, tc := range tests {
		if got := AddMinutes(tc.in, tc.n); got != tc.want {
			t.Fatalf("AddMinutes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestAddMinutesUnparseable(t *testing.T) {
	for _, in := range []string{"", "noon", "0445", "xx:30"} {
		if got := AddMinutes(in, 10); got != in {
			t.Fatalf("AddMinutes(%q, 10) = %q, want input unchanged", in, got)
		}
	}
}

func TestIqamahFromAzanDefaults(t *testing.T) {
	rec := Record{
		FajrAzan:    "04:45",
		DhuhrAzan:   "12:15",
		AsrAzan:     "15:30",
		MaghribAzan: "18:20",
		IshaAzan:    "19:35",
	}
	iqamahFromAzan(&rec, nil)

	want := map[string]string{
		"fajr":    "05:05",
		"dhuhr":   "12:25",
		"asr":     "15:40",
		"maghrib": "18:25",
		"isha":    "19:45",
	}
	got := map[string]string{
		"fajr":    rec.FajrIqamah,
		"dhuhr":   rec.DhuhrIqamah,
		"asr":     rec.AsrIqamah,
		"maghrib": rec.MaghribIqamah,
		"isha":    rec.IshaIqamah,
	}
	for prayer, w := range want {
		if got[prayer] != w {
			t.Fatalf("%s iqamah = %q, want %q", prayer, got[prayer], w)
		}
	}
}

func TestIqamahFromAzanGapOverrides(t *testing.T) {
	rec := Record{FajrAzan: "04:45", MaghribAzan: "18:20"}
	iqamahFromAzan(&rec, map[string]int{"fajr": 30})

	if rec.FajrIqamah != "05:15" {
		t.Fatalf("fajr iqamah with override = %q, want 05:15", rec.FajrIqamah)
	}
	// Prayers without an override keep the default offset.
	if rec.MaghribIqamah != "18:25" {
		t.Fatalf("maghrib iqamah = %q, want 18:25", rec.MaghribIqamah)
	}
}

func TestProviderKey(t *testing.T) {
	tests := []struct {
		provider, region, zone string
		want                   string
	}{
		{ProviderAlAdhan, "Colombo", "", "AL_ADHAN_API:Colombo"},
		{ProviderMosqueClock, "", "SLT-01", "MOSQUE_CLOCK_API:SLT-01"},
		{ProviderManual, "Colombo", "SLT-01", "MANUAL"},
		{"", "Colombo", "", "MANUAL"},
	}
	for _, tc := range tests {
		if got := ProviderKey(tc.provider, tc.region, tc.zone); got != tc.want {
			t.Fatalf("ProviderKey(%q, %q, %q) = %q, want %q", tc.provider, tc.region, tc.zone, got, tc.want)
		}
	}
}

func TestRecordID(t *testing.T) {
	if got := RecordID("2026-03-10", "AL_ADHAN_API:Colombo"); got != "2026-03-10_AL_ADHAN_API:Colombo" {
		t.Fatalf("RecordID = %q", got)
	}
}
