package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masjidclock/masjid-display/internal/domain/auth"
	"github.com/masjidclock/masjid-display/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/display", handler.Display)
		api.GET("/hijri-date", handler.HijriDate)
		api.GET("/prayer-times", handler.PrayerTimes)
		api.GET("/settings", handler.GetSettings)
		api.POST("/auth/login", handler.Login)

		admin := api.Group("/")
		admin.Use(authMiddleware(authSvc))
		admin.PUT("/settings", handler.UpdateSettings)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
