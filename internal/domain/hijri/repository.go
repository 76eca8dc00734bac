package hijri

import (
	"context"
	"time"
)

// Store is the durable cache of resolved date records. Implementations
// must give upsert semantics on ID.
type Store interface {
	GetByID(ctx context.Context, id string) (DateRecord, bool, error)
	// MostRecentBefore returns the latest record for the provider/region
	// whose GregorianDate is strictly before the given date.
	MostRecentBefore(ctx context.Context, provider Provider, region, gregorianDate string) (DateRecord, bool, error)
	AllByProvider(ctx context.Context, provider Provider, region string) ([]DateRecord, error)
	Upsert(ctx context.Context, record DateRecord) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}

// ScrapeResult is what the authority calendar client hands back for one
// Gregorian date. Month names arrive as raw transliterations and are
// parsed by MonthNumber. The month range fields are present when the
// authority published start and end dates for the current Hijri month.
type ScrapeResult struct {
	Day            int
	MonthName      string
	Year           int
	MonthStartDate string
	MonthEndDate   string
	Raw            []byte
}

// AuthorityClient fetches the scraped religious-authority calendar.
// A (nil, nil) return means the authority has no entry for the date.
type AuthorityClient interface {
	Lookup(ctx context.Context, gregorianDate string) (*ScrapeResult, error)
}

// RegionalClient resolves a Hijri date through the city-keyed REST API.
type RegionalClient interface {
	HijriByCity(ctx context.Context, city, country, gregorianDate string) (Date, error)
}

// ZoneClient resolves a Hijri date through the zone-keyed REST API.
type ZoneClient interface {
	HijriByZone(ctx context.Context, zone, gregorianDate string) (Date, error)
}

// SnapshotArchive stores raw authority payloads for month-name parsing
// audits. Failures never block resolution.
type SnapshotArchive interface {
	Save(ctx context.Context, gregorianDate string, payload []byte) error
}
