package archive

import (
	"context"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
)

// NoopArchive discards payloads. Used when archiving is disabled.
type NoopArchive struct{}

// NewNoopArchive constructs the disabled archive.
func NewNoopArchive() *NoopArchive {
	return &NoopArchive{}
}

// Save implements hijri.SnapshotArchive.
func (*NoopArchive) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}

var _ hijri.SnapshotArchive = (*NoopArchive)(nil)
