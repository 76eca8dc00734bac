package prayerrepo

import (
	"context"
	"sync"
	"time"

	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
)

// MemoryStore is an in-memory implementation of the prayer-times store
// for tests and DSN-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]prayertimes.Record
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]prayertimes.Record)}
}

// GetByID implements prayertimes.Store.
func (s *MemoryStore) GetByID(_ context.Context, id string) (prayertimes.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok, nil
}

// Upsert implements prayertimes.Store.
func (s *MemoryStore) Upsert(_ context.Context, record prayertimes.Record) error {
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

var _ prayertimes.Store = (*MemoryStore)(nil)
