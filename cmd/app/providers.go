package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/masjidclock/masjid-display/internal/bootstrap"
	"github.com/masjidclock/masjid-display/internal/domain/auth"
	"github.com/masjidclock/masjid-display/internal/domain/hijri"
	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
	"github.com/masjidclock/masjid-display/internal/domain/settings"
	"github.com/masjidclock/masjid-display/internal/infra/archive"
	"github.com/masjidclock/masjid-display/internal/infra/config"
	"github.com/masjidclock/masjid-display/internal/infra/hijrirepo"
	"github.com/masjidclock/masjid-display/internal/infra/prayerrepo"
	"github.com/masjidclock/masjid-display/internal/infra/settingsrepo"
	"github.com/masjidclock/masjid-display/internal/infra/upstream/acju"
	"github.com/masjidclock/masjid-display/internal/infra/upstream/aladhan"
	"github.com/masjidclock/masjid-display/internal/infra/upstream/mosqueclock"
	"github.com/masjidclock/masjid-display/pkg/metrics"
)

func provideCounters() *metrics.ResolutionCounters {
	return &metrics.ResolutionCounters{}
}

func provideLocation(cfg *config.Config, logger *slog.Logger) *time.Location {
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		logger.Warn("unknown display timezone, using Asia/Colombo offset", "timezone", cfg.Display.Timezone)
		return time.FixedZone("Asia/Colombo", int(5.5*60*60))
	}
	return loc
}

func provideSettingsStore(cfg *config.Config) settings.Store {
	return settingsrepo.NewMemoryStore(settings.Selection{
		HijriProvider:    cfg.Display.HijriProvider,
		PrayerProvider:   cfg.Display.PrayerProvider,
		Region:           cfg.Display.Region,
		Zone:             cfg.Display.Zone,
		ManualHijriDay:   cfg.Display.ManualHijriDay,
		ManualHijriMonth: cfg.Display.ManualHijriMonth,
		ManualHijriYear:  cfg.Display.ManualHijriYear,
		ManualAnchorDate: cfg.Display.ManualAnchorDate,
		ManualAzanTimes:  cfg.Display.ManualAzanTimes,
		IqamahGaps:       cfg.Display.IqamahGaps,
	})
}

// providePostgresPool returns nil when Postgres is unavailable; the store
// providers fall back to memory in that case.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory stores")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory stores", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory stores", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory stores", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres stores enabled")
	return pool
}

func provideHijriStore(pool *pgxpool.Pool) hijri.Store {
	if pool == nil {
		return hijrirepo.NewMemoryStore()
	}
	return hijrirepo.NewPostgresRepository(pool)
}

func providePrayerStore(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) prayertimes.Store {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back", "error", err)
		} else if client, err := valkey.NewClient(opt); err != nil {
			logger.Error("failed to create valkey client, falling back", "error", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
				logger.Error("valkey ping failed, falling back", "error", err)
			} else {
				logger.Info("valkey prayer store enabled", "addr", cfg.Cache.Valkey.Addr)
				retention := time.Duration(cfg.Cache.RetentionDays) * 24 * time.Hour
				return prayerrepo.NewValkeyRepository(client, "prayer", retention)
			}
		}
	}
	if pool != nil {
		return prayerrepo.NewPostgresRepository(pool)
	}
	return prayerrepo.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideAuthorityClient(cfg *config.Config) hijri.AuthorityClient {
	return acju.NewClient(cfg.Upstream.ACJUBaseURL, cfg.Upstream.Timeout)
}

func provideAlAdhanClient(cfg *config.Config) *aladhan.Client {
	return aladhan.NewClient(cfg.Upstream.AlAdhanBaseURL, cfg.Upstream.Timeout)
}

func provideMosqueClockClient(cfg *config.Config) *mosqueclock.Client {
	return mosqueclock.NewClient(cfg.Upstream.MosqueClockBaseURL, cfg.Upstream.Timeout)
}

func provideArchive(cfg *config.Config, logger *slog.Logger) hijri.SnapshotArchive {
	if !cfg.Archive.Enabled {
		return archive.NewNoopArchive()
	}
	a, err := archive.NewMinioArchive(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.UseSSL, logger)
	if err != nil {
		logger.Error("archive disabled, init failed", "error", err)
		return archive.NewNoopArchive()
	}
	return a
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		Secret:            cfg.Auth.JWTSecret,
		TokenTTL:          cfg.Auth.TokenTTL,
	}
}

func provideSweeper(cfg *config.Config, hijriStore hijri.Store, prayerStore prayertimes.Store, logger *slog.Logger) *bootstrap.Sweeper {
	return bootstrap.NewSweeper(hijriStore, prayerStore, cfg.Cache.RetentionDays, cfg.Cache.SweepInterval, logger)
}
