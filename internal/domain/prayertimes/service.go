package prayertimes

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/masjidclock/masjid-display/internal/domain/settings"
	apperrors "github.com/masjidclock/masjid-display/pkg/errors"
	"github.com/masjidclock/masjid-display/pkg/metrics"
	"github.com/masjidclock/masjid-display/pkg/util"
)

const (
	inFlightPollInterval = 100 * time.Millisecond
	// inFlightWaitBound caps how long a waiter trails another caller's
	// fetch before fetching independently. The original design polled
	// forever; a crashed fetch would have stalled every waiter.
	inFlightWaitBound = 10 * time.Second
)

// Service resolves today's prayer schedule for the active provider.
// Unlike the Hijri engine, failures surface to the caller: silently
// substituting guessed prayer times is worse than showing an error.
type Service interface {
	Resolve(ctx context.Context) (Record, error)
	// Invalidate drops the in-memory snapshot, forcing the next call to
	// re-resolve. Registered as a settings-change listener.
	Invalidate()
}

// snapshot is the in-memory fast path. It is swapped as one value so a
// reader can never observe a half-updated (record, date, key) triple.
type snapshot struct {
	record      Record
	date        string
	providerKey string
}

type service struct {
	store    Store
	zone     ZoneClient
	regional RegionalClient
	settings settings.Store
	counters *metrics.ResolutionCounters
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time

	cache    atomic.Pointer[snapshot]
	inFlight atomic.Bool

	pollInterval time.Duration
	waitBound    time.Duration
}

// NewService wires up the prayer-times engine. The location is the
// display timezone: "today" is the mosque's calendar day, not the
// server's.
func NewService(store Store, zone ZoneClient, regional RegionalClient, settingsStore settings.Store, counters *metrics.ResolutionCounters, location *time.Location, logger *slog.Logger) Service {
	s := &service{
		store:        store,
		zone:         zone,
		regional:     regional,
		settings:     settingsStore,
		counters:     counters,
		location:     location,
		logger:       logger.With("component", "prayertimes.service"),
		now:          time.Now,
		pollInterval: inFlightPollInterval,
		waitBound:    inFlightWaitBound,
	}
	settingsStore.Subscribe(s.Invalidate)
	return s
}

func (s *service) Resolve(ctx context.Context) (Record, error) {
	sel, err := s.settings.Current(ctx)
	if err != nil {
		return Record{}, apperrors.Wrap("settings_error", "failed to read provider selection", err)
	}
	key := ProviderKey(sel.PrayerProvider, sel.Region, sel.Zone)
	today := util.FormatDate(s.now().In(s.location))

	if rec, ok := s.fromSnapshot(today, key); ok {
		s.counters.CacheHit()
		return rec, nil
	}

	acquired := s.inFlight.CompareAndSwap(false, true)
	if !acquired {
		rec, ok, err := s.awaitInFlight(ctx, today, key)
		if err != nil {
			return Record{}, err
		}
		if ok {
			s.counters.CacheHit()
			return rec, nil
		}
		// The in-flight fetch finished without satisfying our key, or
		// the wait bound expired: proceed, taking the guard if free.
		acquired = s.inFlight.CompareAndSwap(false, true)
	}
	if acquired {
		defer s.inFlight.Store(false)
	}

	// Re-check: the fetch we waited on may have landed our entry.
	if rec, ok := s.fromSnapshot(today, key); ok {
		s.counters.CacheHit()
		return rec, nil
	}

	// Durable cache is the second level: a restart loses the snapshot
	// but not the day's persisted record.
	if rec, ok := s.fromStore(ctx, today, key); ok {
		s.cache.Store(&snapshot{record: rec, date: today, providerKey: key})
		s.counters.CacheHit()
		return rec, nil
	}

	rec, err := s.fetch(ctx, sel, today, key)
	if err != nil {
		return Record{}, err
	}
	s.cache.Store(&snapshot{record: rec, date: today, providerKey: key})
	return rec, nil
}

func (s *service) Invalidate() {
	s.cache.Store(nil)
}

func (s *service) fromStore(ctx context.Context, date, key string) (Record, bool) {
	if key == ProviderManual {
		// Manual records are never persisted; skip the read.
		return Record{}, false
	}
	rec, ok, err := s.store.GetByID(ctx, RecordID(date, key))
	if err != nil {
		s.logger.Warn("cache read failed", "date", date, "providerKey", key, "error", err)
		return Record{}, false
	}
	return rec, ok
}

func (s *service) fromSnapshot(date, key string) (Record, bool) {
	snap := s.cache.Load()
	if snap == nil || snap.date != date || snap.providerKey != key {
		return Record{}, false
	}
	return snap.record, true
}

// awaitInFlight trails another caller's fetch, polling the snapshot until
// it satisfies this key, the guard clears, or the wait bound expires.
func (s *service) awaitInFlight(ctx context.Context, date, key string) (Record, bool, error) {
	deadline := time.Now().Add(s.waitBound)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return Record{}, false, apperrors.Wrap("canceled", "resolution canceled", ctx.Err())
		case <-ticker.C:
		}
		if rec, ok := s.fromSnapshot(date, key); ok {
			return rec, true, nil
		}
		if !s.inFlight.Load() || time.Now().After(deadline) {
			return Record{}, false, nil
		}
	}
}

func (s *service) fetch(ctx context.Context, sel settings.Selection, today, key string) (Record, error) {
	switch sel.PrayerProvider {
	case ProviderMosqueClock:
		rec, err := s.zone.TimingsByZone(ctx, sel.Zone, today)
		if err != nil {
			return Record{}, apperrors.Wrap("upstream_error", "zone prayer times fetch failed", err)
		}
		// The raw API may report a differently formatted date; normalize
		// to the composite id scheme before caching.
		rec.Date = today
		rec.ProviderKey = key
		rec.ID = RecordID(today, key)
		rec.CreatedAt = s.now()
		s.persist(ctx, rec)
		s.counters.Fetched()
		return rec, nil

	case ProviderAlAdhan:
		country := settings.CountryForRegion(sel.Region)
		azan, err := s.regional.TimingsByCity(ctx, sel.Region, country, today)
		if err != nil {
			return Record{}, apperrors.Wrap("upstream_error", "regional prayer times fetch failed", err)
		}
		rec := Record{
			ID:          RecordID(today, key),
			Date:        today,
			ProviderKey: key,
			FajrAzan:    azan.Fajr,
			DhuhrAzan:   azan.Dhuhr,
			AsrAzan:     azan.Asr,
			MaghribAzan: azan.Maghrib,
			IshaAzan:    azan.Isha,
			JumuahAzan:  azan.Dhuhr,
			Sunrise:     azan.Sunrise,
			HijriDate:   azan.HijriDate,
			Location:    azan.Location,
			CreatedAt:   s.now(),
		}
		iqamahFromAzan(&rec, nil)
		s.persist(ctx, rec)
		s.counters.Fetched()
		return rec, nil

	case ProviderManual:
		// Manual schedules are trivially reconstructible from settings
		// and are never persisted: provider-less rows would pollute the
		// durable store. The snapshot alone carries them.
		rec := Record{
			ID:          RecordID(today, key),
			Date:        today,
			FajrAzan:    sel.ManualAzanTimes["fajr"],
			DhuhrAzan:   sel.ManualAzanTimes["dhuhr"],
			AsrAzan:     sel.ManualAzanTimes["asr"],
			MaghribAzan: sel.ManualAzanTimes["maghrib"],
			IshaAzan:    sel.ManualAzanTimes["isha"],
			JumuahAzan:  sel.ManualAzanTimes["dhuhr"],
			Sunrise:     sel.ManualAzanTimes["sunrise"],
			CreatedAt:   s.now(),
		}
		iqamahFromAzan(&rec, sel.IqamahGaps)
		s.counters.Derived()
		return rec, nil

	default:
		return Record{}, apperrors.Wrap("invalid_input", "unknown prayer provider "+sel.PrayerProvider, nil)
	}
}

func (s *service) persist(ctx context.Context, rec Record) {
	if err := s.store.Upsert(ctx, rec); err != nil {
		// Failed cache writes never block returning the fetched value.
		s.logger.Warn("cache write failed", "id", rec.ID, "error", err)
	}
}
