package hijrirepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
)

// PostgresRepository implements hijri.Store using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const hijriColumns = `id, gregorian_date, hijri_day, hijri_month, hijri_year, provider, region, created_at, is_calculated, month_start_date, month_end_date, month_name`

// GetByID fetches one record by its composite key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (hijri.DateRecord, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+hijriColumns+`
		FROM hijri_dates
		WHERE id = $1
	`, id)
	rec, err := scanDateRecord(row)
	if err == pgx.ErrNoRows {
		return hijri.DateRecord{}, false, nil
	}
	if err != nil {
		return hijri.DateRecord{}, false, err
	}
	return rec, true, nil
}

// MostRecentBefore fetches the newest record preceding the given date.
func (r *PostgresRepository) MostRecentBefore(ctx context.Context, provider hijri.Provider, region, gregorianDate string) (hijri.DateRecord, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+hijriColumns+`
		FROM hijri_dates
		WHERE provider = $1 AND region = $2 AND gregorian_date < $3
		ORDER BY gregorian_date DESC
		LIMIT 1
	`, string(provider), region, gregorianDate)
	rec, err := scanDateRecord(row)
	if err == pgx.ErrNoRows {
		return hijri.DateRecord{}, false, nil
	}
	if err != nil {
		return hijri.DateRecord{}, false, err
	}
	return rec, true, nil
}

// AllByProvider returns every cached record for a provider/region.
func (r *PostgresRepository) AllByProvider(ctx context.Context, provider hijri.Provider, region string) ([]hijri.DateRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+hijriColumns+`
		FROM hijri_dates
		WHERE provider = $1 AND region = $2
	`, string(provider), region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []hijri.DateRecord
	for rows.Next() {
		rec, err := scanDateRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Upsert inserts or replaces a record on its primary key.
func (r *PostgresRepository) Upsert(ctx context.Context, record hijri.DateRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hijri_dates (`+hijriColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			gregorian_date = EXCLUDED.gregorian_date,
			hijri_day = EXCLUDED.hijri_day,
			hijri_month = EXCLUDED.hijri_month,
			hijri_year = EXCLUDED.hijri_year,
			provider = EXCLUDED.provider,
			region = EXCLUDED.region,
			created_at = EXCLUDED.created_at,
			is_calculated = EXCLUDED.is_calculated,
			month_start_date = EXCLUDED.month_start_date,
			month_end_date = EXCLUDED.month_end_date,
			month_name = EXCLUDED.month_name
	`, record.ID, record.GregorianDate, record.Day, record.Month, record.Year,
		string(record.Provider), record.Region, record.CreatedAt, record.IsCalculated,
		nullIfEmpty(record.MonthStartDate), nullIfEmpty(record.MonthEndDate), nullIfEmpty(record.MonthName))
	return err
}

// DeleteOlderThan sweeps records past the retention horizon.
func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM hijri_dates WHERE created_at < $1`, cutoff)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDateRecord(row rowScanner) (hijri.DateRecord, error) {
	var (
		rec        hijri.DateRecord
		provider   string
		monthStart sql.NullString
		monthEnd   sql.NullString
		monthName  sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.GregorianDate, &rec.Day, &rec.Month, &rec.Year,
		&provider, &rec.Region, &rec.CreatedAt, &rec.IsCalculated,
		&monthStart, &monthEnd, &monthName)
	if err != nil {
		return hijri.DateRecord{}, err
	}
	rec.Provider = hijri.Provider(provider)
	rec.MonthStartDate = monthStart.String
	rec.MonthEndDate = monthEnd.String
	rec.MonthName = monthName.String
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ hijri.Store = (*PostgresRepository)(nil)
