package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
)

// MinioArchive keeps raw authority calendar payloads in S3-compatible
// object storage so month-name parsing defaults can be audited after the
// fact.
type MinioArchive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioArchive constructs the archive adapter.
func NewMinioArchive(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *slog.Logger) (*MinioArchive, error) {
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &MinioArchive{client: client, bucket: bucket, logger: logger.With("component", "archive.minio")}, nil
}

// Save uploads one day's raw payload under acju/<date>.json.
func (a *MinioArchive) Save(ctx context.Context, gregorianDate string, payload []byte) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	key := "acju/" + gregorianDate + ".json"
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (a *MinioArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && exists {
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func sanitizeEndpoint(endpoint string) string {
	cleaned := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	return strings.TrimSuffix(cleaned, "/")
}

var _ hijri.SnapshotArchive = (*MinioArchive)(nil)
