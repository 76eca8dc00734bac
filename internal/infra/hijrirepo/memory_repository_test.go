package hijrirepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
)

func seed(t *testing.T, store *MemoryStore, records ...hijri.DateRecord) {
	t.Helper()
	for _, rec := range records {
		require.NoError(t, store.Upsert(context.Background(), rec))
	}
}

func record(provider hijri.Provider, region, gregorian string, day int) hijri.DateRecord {
	return hijri.DateRecord{
		ID:            hijri.RecordID(provider, region, gregorian),
		GregorianDate: gregorian,
		Day:           day,
		Month:         9,
		Year:          1447,
		Provider:      provider,
		Region:        region,
		CreatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreUpsertReplacesByID(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, record(hijri.ProviderACJU, "", "2026-03-10", 20))
	seed(t, store, record(hijri.ProviderACJU, "", "2026-03-10", 21))

	rec, ok, err := store.GetByID(context.Background(), hijri.RecordID(hijri.ProviderACJU, "", "2026-03-10"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 21, rec.Day)
}

func TestMemoryStoreMostRecentBefore(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store,
		record(hijri.ProviderACJU, "", "2026-03-05", 16),
		record(hijri.ProviderACJU, "", "2026-03-08", 19),
		record(hijri.ProviderACJU, "", "2026-03-10", 21),
		record(hijri.ProviderAlAdhan, "Colombo", "2026-03-09", 20),
	)

	rec, ok, err := store.MostRecentBefore(context.Background(), hijri.ProviderACJU, "", "2026-03-10")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2026-03-08", rec.GregorianDate, "same-day record must be excluded")

	// Region is part of the key dimension, not just the provider.
	_, ok, err = store.MostRecentBefore(context.Background(), hijri.ProviderAlAdhan, "Kandy", "2026-03-10")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreAllByProviderFiltersRegion(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store,
		record(hijri.ProviderACJU, "", "2026-03-08", 19),
		record(hijri.ProviderAlAdhan, "Colombo", "2026-03-08", 19),
		record(hijri.ProviderAlAdhan, "Kandy", "2026-03-08", 19),
	)

	records, err := store.AllByProvider(context.Background(), hijri.ProviderAlAdhan, "Colombo")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Colombo", records[0].Region)
}

func TestMemoryStoreDeleteOlderThan(t *testing.T) {
	store := NewMemoryStore()
	old := record(hijri.ProviderACJU, "", "2026-02-01", 12)
	old.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fresh := record(hijri.ProviderACJU, "", "2026-03-08", 19)
	seed(t, store, old, fresh)

	require.NoError(t, store.DeleteOlderThan(context.Background(), time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))

	_, ok, err := store.GetByID(context.Background(), old.ID)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	require.True(t, ok)
}
