package hijri

import (
	"strings"
	"time"
)

// Date is a Hijri calendar date.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Provider identifies the upstream source a record was resolved from.
type Provider string

const (
	ProviderACJU        Provider = "ACJU_DIRECT"
	ProviderAlAdhan     Provider = "AL_ADHAN_API"
	ProviderMosqueClock Provider = "MOSQUE_CLOCK_API"
	ProviderManual      Provider = "MANUAL"
)

// DateRecord is one cached Gregorian-to-Hijri resolution. Records are
// replaced via upsert on their ID, never mutated.
type DateRecord struct {
	ID            string    `json:"id"`
	GregorianDate string    `json:"gregorianDate"`
	Day           int       `json:"hijriDay"`
	Month         int       `json:"hijriMonth"`
	Year          int       `json:"hijriYear"`
	Provider      Provider  `json:"provider"`
	Region        string    `json:"region,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	IsCalculated  bool      `json:"isCalculated"`

	// Authoritative Gregorian range of the current Hijri month. Known only
	// for the ACJU provider, which publishes month start and end dates.
	MonthStartDate string `json:"monthStartDate,omitempty"`
	MonthEndDate   string `json:"monthEndDate,omitempty"`

	// Raw month name as the source reported it, kept for parsing audits.
	MonthName string `json:"monthName,omitempty"`
}

// HijriDate returns the record's date component.
func (r DateRecord) HijriDate() Date {
	return Date{Day: r.Day, Month: r.Month, Year: r.Year}
}

// RecordID builds the composite primary key. The scheme doubles as the
// persisted key and must stay stable: PROVIDER[_region]_YYYY-MM-DD.
func RecordID(provider Provider, region, gregorianDate string) string {
	parts := []string{string(provider)}
	if region != "" {
		parts = append(parts, region)
	}
	parts = append(parts, gregorianDate)
	return strings.Join(parts, "_")
}
