package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
)

// Sweeper periodically deletes cached records older than the retention
// horizon from both stores.
type Sweeper struct {
	hijriStore  hijri.Store
	prayerStore prayertimes.Store
	retention   time.Duration
	interval    time.Duration
	logger      *slog.Logger
}

// NewSweeper builds the retention sweeper.
func NewSweeper(hijriStore hijri.Store, prayerStore prayertimes.Store, retentionDays int, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		hijriStore:  hijriStore,
		prayerStore: prayerStore,
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		interval:    interval,
		logger:      logger.With("component", "bootstrap.sweeper"),
	}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	if err := s.hijriStore.DeleteOlderThan(ctx, cutoff); err != nil {
		s.logger.Warn("hijri cache sweep failed", "error", err)
	}
	if err := s.prayerStore.DeleteOlderThan(ctx, cutoff); err != nil {
		s.logger.Warn("prayer cache sweep failed", "error", err)
	}
	s.logger.Debug("cache sweep completed", "cutoff", cutoff)
}
