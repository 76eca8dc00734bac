package prayerrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
)

// ValkeyRepository implements prayertimes.Store on a Valkey-compatible
// database. Every write carries the retention horizon as its TTL, so
// expiry does the sweeping and DeleteOlderThan has nothing left to do.
type ValkeyRepository struct {
	client    valkey.Client
	prefix    string
	retention time.Duration
}

// NewValkeyRepository constructs a store backed by Valkey.
func NewValkeyRepository(client valkey.Client, prefix string, retention time.Duration) *ValkeyRepository {
	if prefix == "" {
		prefix = "prayer"
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &ValkeyRepository{client: client, prefix: prefix, retention: retention}
}

// GetByID implements prayertimes.Store.
func (s *ValkeyRepository) GetByID(ctx context.Context, id string) (prayertimes.Record, bool, error) {
	cmd := s.client.B().Get().Key(s.key(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return prayertimes.Record{}, false, nil
		}
		return prayertimes.Record{}, false, err
	}
	var rec prayertimes.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return prayertimes.Record{}, false, err
	}
	return rec, true, nil
}

// Upsert implements prayertimes.Store.
func (s *ValkeyRepository) Upsert(ctx context.Context, record prayertimes.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.key(record.ID)).Value(string(payload)).Ex(s.retention).Build()
	return s.client.Do(ctx, cmd).Error()
}

// DeleteOlderThan is a no-op: per-key TTLs enforce retention.
func (s *ValkeyRepository) DeleteOlderThan(_ context.Context, _ time.Time) error {
	return nil
}

func (s *ValkeyRepository) key(id string) string {
	return s.prefix + ":" + id
}

var _ prayertimes.Store = (*ValkeyRepository)(nil)
