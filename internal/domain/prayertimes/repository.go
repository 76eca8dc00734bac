package prayertimes

import (
	"context"
	"time"
)

// Store is the durable prayer-times cache with upsert-by-ID semantics.
type Store interface {
	GetByID(ctx context.Context, id string) (Record, bool, error)
	Upsert(ctx context.Context, record Record) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}

// ZoneClient fetches a complete schedule, iqamah times included, for a
// mosque zone.
type ZoneClient interface {
	TimingsByZone(ctx context.Context, zone, date string) (Record, error)
}

// RegionalClient fetches azan times for a city. Iqamah times are derived
// locally by offset.
type RegionalClient interface {
	TimingsByCity(ctx context.Context, city, country, date string) (AzanTimes, error)
}
