package prayertimes

import "time"

// Provider identifiers, as they appear inside provider keys.
const (
	ProviderManual      = "MANUAL"
	ProviderAlAdhan     = "AL_ADHAN_API"
	ProviderMosqueClock = "MOSQUE_CLOCK_API"
)

// Record holds one day's prayer schedule under one provider context. The
// same calendar date under two providers yields two records: prayer times
// are location- and method-dependent.
type Record struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	ProviderKey string `json:"providerKey,omitempty"`

	FajrAzan    string `json:"fajrAzan"`
	DhuhrAzan   string `json:"dhuhrAzan"`
	AsrAzan     string `json:"asrAzan"`
	MaghribAzan string `json:"maghribAzan"`
	IshaAzan    string `json:"ishaAzan"`
	JumuahAzan  string `json:"jumuahAzan"`

	FajrIqamah    string `json:"fajrIqamah"`
	DhuhrIqamah   string `json:"dhuhrIqamah"`
	AsrIqamah     string `json:"asrIqamah"`
	MaghribIqamah string `json:"maghribIqamah"`
	IshaIqamah    string `json:"ishaIqamah"`

	Sunrise   string    `json:"sunrise"`
	HijriDate string    `json:"hijriDate,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AzanTimes is the azan-only payload returned by the city-keyed API,
// which does not supply iqamah times.
type AzanTimes struct {
	Fajr      string
	Sunrise   string
	Dhuhr     string
	Asr       string
	Maghrib   string
	Isha      string
	HijriDate string
	Location  string
}

// ProviderKey derives the composite cache key dimension from a selection.
// Manual is always bare: region and zone never qualify it.
func ProviderKey(provider, region, zone string) string {
	switch provider {
	case ProviderAlAdhan:
		return ProviderAlAdhan + ":" + region
	case ProviderMosqueClock:
		return ProviderMosqueClock + ":" + zone
	default:
		return ProviderManual
	}
}

// RecordID builds the persisted primary key: YYYY-MM-DD_PROVIDERKEY.
func RecordID(date, providerKey string) string {
	return date + "_" + providerKey
}
