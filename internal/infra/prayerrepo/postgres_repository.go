package prayerrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
)

// PostgresRepository implements prayertimes.Store using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const prayerColumns = `id, date, provider_key, fajr_azan, dhuhr_azan, asr_azan, maghrib_azan, isha_azan, jumuah_azan, fajr_iqamah, dhuhr_iqamah, asr_iqamah, maghrib_iqamah, isha_iqamah, sunrise, hijri_date, location, created_at`

// GetByID fetches one record by its composite key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (prayertimes.Record, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+prayerColumns+`
		FROM prayer_times
		WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if err == pgx.ErrNoRows {
		return prayertimes.Record{}, false, nil
	}
	if err != nil {
		return prayertimes.Record{}, false, err
	}
	return rec, true, nil
}

// Upsert inserts or replaces a record on its primary key.
func (r *PostgresRepository) Upsert(ctx context.Context, record prayertimes.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prayer_times (`+prayerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			provider_key = EXCLUDED.provider_key,
			fajr_azan = EXCLUDED.fajr_azan,
			dhuhr_azan = EXCLUDED.dhuhr_azan,
			asr_azan = EXCLUDED.asr_azan,
			maghrib_azan = EXCLUDED.maghrib_azan,
			isha_azan = EXCLUDED.isha_azan,
			jumuah_azan = EXCLUDED.jumuah_azan,
			fajr_iqamah = EXCLUDED.fajr_iqamah,
			dhuhr_iqamah = EXCLUDED.dhuhr_iqamah,
			asr_iqamah = EXCLUDED.asr_iqamah,
			maghrib_iqamah = EXCLUDED.maghrib_iqamah,
			isha_iqamah = EXCLUDED.isha_iqamah,
			sunrise = EXCLUDED.sunrise,
			hijri_date = EXCLUDED.hijri_date,
			location = EXCLUDED.location,
			created_at = EXCLUDED.created_at
	`, record.ID, record.Date, nullIfEmpty(record.ProviderKey),
		record.FajrAzan, record.DhuhrAzan, record.AsrAzan, record.MaghribAzan, record.IshaAzan, record.JumuahAzan,
		record.FajrIqamah, record.DhuhrIqamah, record.AsrIqamah, record.MaghribIqamah, record.IshaIqamah,
		record.Sunrise, nullIfEmpty(record.HijriDate), nullIfEmpty(record.Location), record.CreatedAt)
	return err
}

// DeleteOlderThan sweeps records past the retention horizon.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM prayer_times WHERE created_at < $1`, cutoff)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (prayertimes.Record, error) {
	var (
		rec         prayertimes.Record
		providerKey sql.NullString
		hijriDate   sql.NullString
		location    sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Date, &providerKey,
		&rec.FajrAzan, &rec.DhuhrAzan, &rec.AsrAzan, &rec.MaghribAzan, &rec.IshaAzan, &rec.JumuahAzan,
		&rec.FajrIqamah, &rec.DhuhrIqamah, &rec.AsrIqamah, &rec.MaghribIqamah, &rec.IshaIqamah,
		&rec.Sunrise, &hijriDate, &location, &rec.CreatedAt)
	if err != nil {
		return prayertimes.Record{}, err
	}
	rec.ProviderKey = providerKey.String
	rec.HijriDate = hijriDate.String
	rec.Location = location.String
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ prayertimes.Store = (*PostgresRepository)(nil)
