package hijrirepo

import (
	"context"
	"sync"
	"time"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
)

// MemoryStore is an in-memory implementation of the hijri store for
// tests and DSN-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]hijri.DateRecord
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]hijri.DateRecord)}
}

// GetByID implements hijri.Store.
func (s *MemoryStore) GetByID(_ context.Context, id string) (hijri.DateRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok, nil
}

// MostRecentBefore returns the latest record strictly before the date.
// ISO dates order lexicographically, so string comparison suffices.
func (s *MemoryStore) MostRecentBefore(_ context.Context, provider hijri.Provider, region, gregorianDate string) (hijri.DateRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		best  hijri.DateRecord
		found bool
	)
	for _, rec := range s.records {
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

// AllByProvider implements hijri.Store.
func (s *MemoryStore) AllByProvider(_ context.Context, provider hijri.Provider, region string) ([]hijri.DateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []hijri.DateRecord
	for _, rec := range s.records {
		if rec.Provider == provider && rec.Region == region {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Upsert implements hijri.Store.
func (s *MemoryStore) Upsert(_ context.Context, record hijri.DateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.records, id)
		}
	}
	return nil
}

var _ hijri.Store = (*MemoryStore)(nil)
