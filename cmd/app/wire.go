//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/masjidclock/masjid-display/internal/bootstrap"
	"github.com/masjidclock/masjid-display/internal/domain/auth"
	"github.com/masjidclock/masjid-display/internal/domain/hijri"
	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
	"github.com/masjidclock/masjid-display/internal/infra/config"
	"github.com/masjidclock/masjid-display/internal/infra/upstream/aladhan"
	"github.com/masjidclock/masjid-display/internal/infra/upstream/mosqueclock"
	httpiface "github.com/masjidclock/masjid-display/internal/interface/http"
	"github.com/masjidclock/masjid-display/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideCounters,
		provideLocation,
		provideSettingsStore,
		providePostgresPool,
		provideHijriStore,
		providePrayerStore,
		provideAuthorityClient,
		provideAlAdhanClient,
		provideMosqueClockClient,
		provideArchive,
		provideAuthConfig,
		provideSweeper,
		hijri.NewService,
		prayertimes.NewService,
		auth.NewService,
		wire.Bind(new(hijri.RegionalClient), new(*aladhan.Client)),
		wire.Bind(new(prayertimes.RegionalClient), new(*aladhan.Client)),
		wire.Bind(new(hijri.ZoneClient), new(*mosqueclock.Client)),
		wire.Bind(new(prayertimes.ZoneClient), new(*mosqueclock.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
