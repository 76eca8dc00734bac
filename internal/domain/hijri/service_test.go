package hijri

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/masjidclock/masjid-display/internal/domain/settings"
	"github.com/masjidclock/masjid-display/pkg/metrics"
	"github.com/masjidclock/masjid-display/pkg/util"
)

type fakeStore struct {
	records  map[string]DateRecord
	upserted []DateRecord
}

func newFakeStore(records ...DateRecord) *fakeStore {
	f := &fakeStore{records: make(map[string]DateRecord)}
	for _, r := range records {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeStore) GetByID(_ context.Context, id string) (DateRecord, bool, error) {
	rec, ok := f.records[id]
	return rec, ok, nil
}

func (f *fakeStore) MostRecentBefore(_ context.Context, provider Provider, region, gregorianDate string) (DateRecord, bool, error) {
	var best DateRecord
	found := false
	for _, rec := range f.records {
		if rec.Provider != provider || rec.Region != region {
			continue
		}
		if rec.GregorianDate >= gregorianDate {
			continue
		}
		if !found || rec.GregorianDate > best.GregorianDate {
			best = rec
			found = true
		}
	}
	return best, found, nil
}

func (f *fakeStore) AllByProvider(_ context.Context, provider Provider, region string) ([]DateRecord, error) {
	var out []DateRecord
	for _, rec := range f.records {
		if rec.Provider == provider && rec.Region == region {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) Upsert(_ context.Context, record DateRecord) error {
	f.records[record.ID] = record
	f.upserted = append(f.upserted, record)
	return nil
}

func (f *fakeStore) DeleteOlderThan(context.Context, time.Time) error { return nil }

type fakeAuthority struct {
	calls  int
	result *ScrapeResult
	err    error
}

func (f *fakeAuthority) Lookup(context.Context, string) (*ScrapeResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeSettings struct {
	sel settings.Selection
}

func (f *fakeSettings) Current(context.Context) (settings.Selection, error) { return f.sel, nil }
func (f *fakeSettings) Update(_ context.Context, sel settings.Selection) (settings.Selection, error) {
	f.sel = sel
	return sel, nil
}
func (f *fakeSettings) Subscribe(func()) {}

func newTestService(store Store, authority AuthorityClient, sel settings.Selection) (*service, *metrics.ResolutionCounters) {
	counters := &metrics.ResolutionCounters{}
	return &service{
		store:     store,
		authority: authority,
		settings:  &fakeSettings{sel: sel},
		counters:  counters,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	}, counters
}

func acjuSelection() settings.Selection {
	return settings.Selection{HijriProvider: "ACJU_DIRECT", PrayerProvider: "MANUAL"}
}

func dateRecord(gregorian string, day, month, year int) DateRecord {
	return DateRecord{
		ID:            RecordID(ProviderACJU, "", gregorian),
		GregorianDate: gregorian,
		Day:           day,
		Month:         month,
		Year:          year,
		Provider:      ProviderACJU,
	}
}

func TestResolveCacheHitSkipsNetwork(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(dateRecord("2026-03-10", 20, 9, 1447))
	authority := &fakeAuthority{}
	svc, counters := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, Date{Day: 20, Month: 9, Year: 1447}, got)
	require.Zero(t, authority.calls)
	require.Empty(t, store.upserted)
	require.Equal(t, int64(1), counters.Read().CacheHits)
}

func TestResolveDerivesFromRecentBase(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(dateRecord("2026-03-08", 10, 9, 1447))
	authority := &fakeAuthority{}
	svc, counters := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, Date{Day: 12, Month: 9, Year: 1447}, got)
	require.Zero(t, authority.calls, "mid-month derivation must not hit the network")
	require.Equal(t, int64(1), counters.Read().Derived)

	require.Len(t, store.upserted, 1)
	derived := store.upserted[0]
	require.Equal(t, RecordID(ProviderACJU, "", "2026-03-10"), derived.ID)
	require.True(t, derived.IsCalculated)
}

func TestResolveRefusesStaleBase(t *testing.T) {
	// Base is 10 days old, beyond the one-week derivation window.
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(dateRecord("2026-02-28", 10, 9, 1447))
	authority := &fakeAuthority{result: &ScrapeResult{Day: 20, MonthName: "Ramadan", Year: 1447}}
	svc, counters := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, 1, authority.calls)
	require.Equal(t, Date{Day: 20, Month: 9, Year: 1447}, got)
	require.Equal(t, int64(1), counters.Read().Fetched)
}

func TestResolveRefusesBoundaryBase(t *testing.T) {
	// A base on day 28 may straddle an unconfirmed month transition.
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(dateRecord("2026-03-09", 28, 9, 1447))
	authority := &fakeAuthority{result: &ScrapeResult{Day: 29, MonthName: "Ramadan", Year: 1447}}
	svc, _ := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, 1, authority.calls)
	require.Equal(t, Date{Day: 29, Month: 9, Year: 1447}, got)
}

func TestResolveDay29TrustedInsideKnownRange(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	base := dateRecord("2026-03-08", 27, 9, 1447)
	base.MonthStartDate = "2026-02-12"
	base.MonthEndDate = "2026-03-12"
	store := newFakeStore(base)
	authority := &fakeAuthority{}
	svc, counters := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, Date{Day: 29, Month: 9, Year: 1447}, got)
	require.Zero(t, authority.calls, "day 29 inside a confirmed range must not refetch")
	require.Equal(t, int64(1), counters.Read().Derived)
}

func TestResolveDay29OnMonthEnd(t *testing.T) {
	base := dateRecord("2026-03-08", 27, 9, 1447)
	base.MonthStartDate = "2026-02-10"
	base.MonthEndDate = "2026-03-10"

	t.Run("morning keeps derived value", func(t *testing.T) {
		today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		store := newFakeStore(base)
		authority := &fakeAuthority{}
		svc, _ := newTestService(store, authority, acjuSelection())

		got := svc.Resolve(context.Background(), today)

		require.Equal(t, Date{Day: 29, Month: 9, Year: 1447}, got)
		require.Zero(t, authority.calls)
	})

	t.Run("evening refetches after sighting window opens", func(t *testing.T) {
		today := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
		store := newFakeStore(base)
		authority := &fakeAuthority{result: &ScrapeResult{Day: 1, MonthName: "Shawwal", Year: 1447}}
		svc, _ := newTestService(store, authority, acjuSelection())

		got := svc.Resolve(context.Background(), today)

		require.Equal(t, 1, authority.calls)
		require.Equal(t, Date{Day: 1, Month: 10, Year: 1447}, got)
	})
}

func TestResolveDegradedFallbackReusesRejectedDerivation(t *testing.T) {
	// Candidate lands on day 29 with no known month range, so the gate
	// demands a refetch. When the fetch fails the rejected derivation is
	// still served rather than dropping to manual arithmetic.
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(dateRecord("2026-03-08", 27, 9, 1447))
	authority := &fakeAuthority{err: errors.New("acju unreachable")}
	svc, counters := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, 1, authority.calls)
	require.Equal(t, Date{Day: 29, Month: 9, Year: 1447}, got)
	require.Equal(t, int64(1), counters.Read().Fallbacks)

	rec, ok, err := store.GetByID(context.Background(), RecordID(ProviderACJU, "", "2026-03-10"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, rec.IsCalculated)
}

func TestResolveAuthorityNoEntryFallsBackToManual(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sel := acjuSelection()
	sel.ManualHijriDay = 1
	sel.ManualHijriMonth = 9
	sel.ManualHijriYear = 1447
	sel.ManualAnchorDate = "2026-03-05"
	store := newFakeStore()
	authority := &fakeAuthority{} // (nil, nil): no calendar entry
	svc, counters := newTestService(store, authority, sel)

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, 1, authority.calls)
	require.Equal(t, Date{Day: 6, Month: 9, Year: 1447}, got)
	require.Equal(t, int64(1), counters.Read().Fallbacks)
}

func TestResolveManualProvider(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sel := settings.Selection{
		HijriProvider:    "MANUAL",
		ManualHijriDay:   28,
		ManualHijriMonth: 8,
		ManualHijriYear:  1447,
		ManualAnchorDate: "2026-03-05",
	}
	store := newFakeStore()
	authority := &fakeAuthority{}
	svc, _ := newTestService(store, authority, sel)

	got := svc.Resolve(context.Background(), today)

	// 28 Sha'ban + 5 days rolls into Ramadan (Sha'ban has 29 days).
	require.Equal(t, Date{Day: 4, Month: 9, Year: 1447}, got)
	require.Zero(t, authority.calls)
	require.Empty(t, store.upserted, "manual arithmetic is never persisted")
}

func TestResolveFetchPersistsScrapeMetadata(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	authority := &fakeAuthority{result: &ScrapeResult{
		Day:            21,
		MonthName:      "Ramadhan",
		Year:           1447,
		MonthStartDate: "2026-02-18",
		MonthEndDate:   "2026-03-19",
	}}
	svc, _ := newTestService(store, authority, acjuSelection())

	got := svc.Resolve(context.Background(), today)

	require.Equal(t, Date{Day: 21, Month: 9, Year: 1447}, got)
	require.Len(t, store.upserted, 1)
	rec := store.upserted[0]
	require.Equal(t, "2026-02-18", rec.MonthStartDate)
	require.Equal(t, "2026-03-19", rec.MonthEndDate)
	require.Equal(t, "Ramadhan", rec.MonthName)
	require.False(t, rec.IsCalculated)
	require.Equal(t, util.FormatDate(today), rec.GregorianDate)
}
