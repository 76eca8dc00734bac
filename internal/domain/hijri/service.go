package hijri

import (
	"context"
	"log/slog"
	"time"

	"github.com/masjidclock/masjid-display/internal/domain/settings"
	"github.com/masjidclock/masjid-display/pkg/metrics"
	"github.com/masjidclock/masjid-display/pkg/util"
)

const (
	// maxDerivationAgeDays bounds how stale a cached base record may be
	// before arithmetic derivation is refused.
	maxDerivationAgeDays = 7
	// unsafeDerivationDay marks the start of the month-boundary window:
	// extrapolating from day 28 or later may cross an unconfirmed month
	// transition, whose length depends on moon sighting.
	unsafeDerivationDay = 28
	// sightingAnnouncementHour is when the authority historically starts
	// publishing moon-sighting updates. After this hour a derived day-29
	// value on the last day of a known month range is no longer trusted.
	sightingAnnouncementHour = 18
)

// Service resolves the Hijri date for a Gregorian day. Resolve never
// fails outward: every error demotes to a cheaper source, bottoming out
// at arithmetic from the manual anchor.
type Service interface {
	Resolve(ctx context.Context, today time.Time) Date
}

type service struct {
	store     Store
	authority AuthorityClient
	regional  RegionalClient
	zone      ZoneClient
	archive   SnapshotArchive
	settings  settings.Store
	counters  *metrics.ResolutionCounters
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the Hijri resolution engine.
func NewService(store Store, authority AuthorityClient, regional RegionalClient, zone ZoneClient, archive SnapshotArchive, settingsStore settings.Store, counters *metrics.ResolutionCounters, logger *slog.Logger) Service {
	return &service{
		store:     store,
		authority: authority,
		regional:  regional,
		zone:      zone,
		archive:   archive,
		settings:  settingsStore,
		counters:  counters,
		logger:    logger.With("component", "hijri.service"),
		now:       time.Now,
	}
}

func (s *service) Resolve(ctx context.Context, today time.Time) Date {
	sel, err := s.settings.Current(ctx)
	if err != nil {
		s.logger.Error("settings read failed, using manual arithmetic", "error", err)
		return s.manualArithmetic(today, sel)
	}

	provider := Provider(sel.HijriProvider)
	if provider == ProviderManual {
		return s.manualArithmetic(today, sel)
	}

	todayStr := util.FormatDate(today)
	region := regionFor(provider, sel)

	if rec, ok := s.lookup(ctx, RecordID(provider, region, todayStr)); ok {
		s.counters.CacheHit()
		return rec.HijriDate()
	}

	// Attempt arithmetic derivation from the most recent cached record.
	// A derived value rejected by the freshness gate is kept around: it
	// remains usable as a degraded fallback if the network fetch fails.
	var rejected *DateRecord
	if base, ok := s.recentBase(ctx, provider, region, todayStr); ok {
		if candidate, ok := s.derive(base, today, todayStr); ok {
			if provider != ProviderACJU || !s.needsRefetch(ctx, provider, region, candidate, today) {
				s.persist(ctx, *candidate)
				s.counters.Derived()
				return candidate.HijriDate()
			}
			rejected = candidate
		}
	}

	switch provider {
	case ProviderACJU:
		return s.fromAuthority(ctx, today, todayStr, sel, rejected)
	case ProviderAlAdhan:
		return s.fromRegional(ctx, today, todayStr, sel)
	case ProviderMosqueClock:
		return s.fromZone(ctx, today, todayStr, sel)
	default:
		s.logger.Warn("unknown hijri provider, using manual arithmetic", "provider", string(provider))
		return s.manualArithmetic(today, sel)
	}
}

func (s *service) lookup(ctx context.Context, id string) (DateRecord, bool) {
	rec, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("cache read failed", "id", id, "error", err)
		return DateRecord{}, false
	}
	return rec, ok
}

func (s *service) recentBase(ctx context.Context, provider Provider, region, todayStr string) (DateRecord, bool) {
	rec, ok, err := s.store.MostRecentBefore(ctx, provider, region, todayStr)
	if err != nil {
		s.logger.Warn("cache range read failed", "provider", string(provider), "error", err)
		return DateRecord{}, false
	}
	return rec, ok
}

// derive extrapolates today's date from a cached base record. It refuses
// when the base is older than a week or already inside the month-boundary
// window, where month length is not yet settled by sighting.
func (s *service) derive(base DateRecord, today time.Time, todayStr string) (*DateRecord, bool) {
	baseDate, err := util.ParseDate(base.GregorianDate)
	if err != nil {
		// Malformed cached date: treat as a cache miss.
		s.logger.Warn("cached record has malformed date", "id", base.ID, "date", base.GregorianDate)
		return nil, false
	}
	daysDiff := util.DaysBetween(baseDate, today)
	if daysDiff <= 0 || daysDiff > maxDerivationAgeDays {
		return nil, false
	}
	if base.Day >= unsafeDerivationDay {
		return nil, false
	}
	d := AddDays(base.HijriDate(), daysDiff)
	rec := DateRecord{
		ID:            RecordID(base.Provider, base.Region, todayStr),
		GregorianDate: todayStr,
		Day:           d.Day,
		Month:         d.Month,
		Year:          d.Year,
		Provider:      base.Provider,
		Region:        base.Region,
		CreatedAt:     s.now(),
		IsCalculated:  true,
	}
	return &rec, true
}

// needsRefetch is the freshness gate for ACJU-derived values. Day 30 is
// always settled: a 30th day only exists once the month was confirmed to
// extend there. Days 1-28 always pass. Day 29 is trusted only while the
// clock is before the sighting announcement window and a known month
// range confirms the month extends past today.
func (s *service) needsRefetch(ctx context.Context, provider Provider, region string, candidate *DateRecord, today time.Time) bool {
	if candidate.Day <= 28 || candidate.Day == 30 {
		return false
	}

	records, err := s.store.AllByProvider(ctx, provider, region)
	if err != nil {
		s.logger.Warn("month range lookup failed", "error", err)
		return true
	}

	covering, found := coveringRange(records, today)
	if !found {
		// No known range covers today: conservative refetch.
		return true
	}
	if util.FormatDate(today) == covering.MonthEndDate {
		// Candidate sits on the last known day of the month. Before the
		// announcement hour the cached value is still trustworthy; from
		// 18:00 the authority may have announced a sighting, so refetch.
		return today.Hour() >= sightingAnnouncementHour
	}
	return false
}

func coveringRange(records []DateRecord, today time.Time) (DateRecord, bool) {
	todayStr := util.FormatDate(today)
	for _, rec := range records {
		if rec.MonthStartDate == "" || rec.MonthEndDate == "" {
			continue
		}
		if rec.MonthStartDate <= todayStr && todayStr <= rec.MonthEndDate {
			return rec, true
		}
	}
	return DateRecord{}, false
}

func (s *service) fromAuthority(ctx context.Context, today time.Time, todayStr string, sel settings.Selection, rejected *DateRecord) Date {
	res, err := s.authority.Lookup(ctx, todayStr)
	if err == nil && res != nil {
		month, known := MonthNumber(res.MonthName)
		if !known {
			s.logger.Warn("unrecognized hijri month name", "raw", res.MonthName)
		}
		rec := DateRecord{
			ID:             RecordID(ProviderACJU, "", todayStr),
			GregorianDate:  todayStr,
			Day:            res.Day,
			Month:          month,
			Year:           res.Year,
			Provider:       ProviderACJU,
			CreatedAt:      s.now(),
			MonthStartDate: res.MonthStartDate,
			MonthEndDate:   res.MonthEndDate,
			MonthName:      res.MonthName,
		}
		s.archiveRaw(ctx, todayStr, res.Raw)
		s.persist(ctx, rec)
		s.counters.Fetched()
		return rec.HijriDate()
	}
	if err != nil {
		s.logger.Warn("authority lookup failed", "date", todayStr, "error", err)
	}

	// Best-effort degraded mode: a derived value the gate rejected for
	// trust is still better than pure manual arithmetic.
	if rejected != nil {
		s.logger.Info("authority unavailable, reusing derived value", "date", todayStr)
		s.persist(ctx, *rejected)
		s.counters.Fallback()
		return rejected.HijriDate()
	}

	s.counters.Fallback()
	return s.manualArithmetic(today, sel)
}

func (s *service) fromRegional(ctx context.Context, today time.Time, todayStr string, sel settings.Selection) Date {
	country := settings.CountryForRegion(sel.Region)
	d, err := s.regional.HijriByCity(ctx, sel.Region, country, todayStr)
	if err != nil {
		s.logger.Warn("regional hijri lookup failed", "region", sel.Region, "error", err)
		s.counters.Fallback()
		return s.manualArithmetic(today, sel)
	}
	s.persist(ctx, DateRecord{
		ID:            RecordID(ProviderAlAdhan, sel.Region, todayStr),
		GregorianDate: todayStr,
		Day:           d.Day,
		Month:         d.Month,
		Year:          d.Year,
		Provider:      ProviderAlAdhan,
		Region:        sel.Region,
		CreatedAt:     s.now(),
	})
	s.counters.Fetched()
	return d
}

func (s *service) fromZone(ctx context.Context, today time.Time, todayStr string, sel settings.Selection) Date {
	d, err := s.zone.HijriByZone(ctx, sel.Zone, todayStr)
	if err != nil {
		s.logger.Warn("zone hijri lookup failed", "zone", sel.Zone, "error", err)
		s.counters.Fallback()
		return s.manualArithmetic(today, sel)
	}
	s.persist(ctx, DateRecord{
		ID:            RecordID(ProviderMosqueClock, sel.Zone, todayStr),
		GregorianDate: todayStr,
		Day:           d.Day,
		Month:         d.Month,
		Year:          d.Year,
		Provider:      ProviderMosqueClock,
		Region:        sel.Zone,
		CreatedAt:     s.now(),
	})
	s.counters.Fetched()
	return d
}

// manualArithmetic never touches cache or network and never fails.
func (s *service) manualArithmetic(today time.Time, sel settings.Selection) Date {
	anchor := Date{Day: sel.ManualHijriDay, Month: sel.ManualHijriMonth, Year: sel.ManualHijriYear}
	if anchor.Day == 0 || anchor.Month == 0 || anchor.Year == 0 {
		anchor = Date{Day: 1, Month: 1, Year: 1447}
	}
	anchorDate, err := util.ParseDate(sel.ManualAnchorDate)
	if err != nil {
		s.logger.Warn("manual anchor date unparseable", "raw", sel.ManualAnchorDate)
		return anchor
	}
	daysPassed := util.DaysBetween(anchorDate, today)
	if daysPassed <= 0 {
		return anchor
	}
	return AddDays(anchor, daysPassed)
}

func (s *service) persist(ctx context.Context, rec DateRecord) {
	if err := s.store.Upsert(ctx, rec); err != nil {
		// A failed cache write must never block returning the value.
		s.logger.Warn("cache write failed", "id", rec.ID, "error", err)
	}
}

func (s *service) archiveRaw(ctx context.Context, date string, payload []byte) {
	if s.archive == nil || len(payload) == 0 {
		return
	}
	if err := s.archive.Save(ctx, date, payload); err != nil {
		s.logger.Warn("archive write failed", "date", date, "error", err)
	}
}

// regionFor returns the cache-key region dimension for region-keyed
// providers. ACJU publishes one national calendar and carries none.
func regionFor(provider Provider, sel settings.Selection) string {
	switch provider {
	case ProviderAlAdhan:
		return sel.Region
	case ProviderMosqueClock:
		return sel.Zone
	default:
		return ""
	}
}
