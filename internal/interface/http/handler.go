package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/masjidclock/masjid-display/internal/domain/auth"
	"github.com/masjidclock/masjid-display/internal/domain/hijri"
	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
	"github.com/masjidclock/masjid-display/internal/domain/settings"
	apperrors "github.com/masjidclock/masjid-display/pkg/errors"
	"github.com/masjidclock/masjid-display/pkg/metrics"
	"github.com/masjidclock/masjid-display/pkg/util"
)

// Handler wires the HTTP transport to the domain services.
type Handler struct {
	hijriSvc  hijri.Service
	prayerSvc prayertimes.Service
	authSvc   auth.Service
	settings  settings.Store
	counters  *metrics.ResolutionCounters
	logger    *slog.Logger
	location  *time.Location
	now       func() time.Time
}

// NewHandler constructs the root HTTP handler.
func NewHandler(hijriSvc hijri.Service, prayerSvc prayertimes.Service, authSvc auth.Service, settingsStore settings.Store, counters *metrics.ResolutionCounters, location *time.Location, logger *slog.Logger) *Handler {
	return &Handler{
		hijriSvc:  hijriSvc,
		prayerSvc: prayerSvc,
		authSvc:   authSvc,
		settings:  settingsStore,
		counters:  counters,
		logger:    logger.With("component", "http.handler"),
		location:  location,
		now:       time.Now,
	}
}

// Display serves the combined payload the clock UI polls: today's Hijri
// date and prayer schedule in one response.
func (h *Handler) Display(c *gin.Context) {
	today := h.now().In(h.location)
	date := h.hijriSvc.Resolve(c.Request.Context(), today)

	resp := gin.H{
		"gregorianDate": util.FormatDate(today),
		"hijriDate":     date,
	}

	times, err := h.prayerSvc.Resolve(c.Request.Context())
	if err != nil {
		// The Hijri half never fails; surface the prayer failure inline
		// so the UI can keep its date and show a schedule error.
		resp["prayerTimesError"] = errMessage(err)
	} else {
		resp["prayerTimes"] = times
	}

	c.JSON(http.StatusOK, resp)
}

// HijriDate resolves the Hijri date for today or an explicit ?date=.
func (h *Handler) HijriDate(c *gin.Context) {
	target := h.now().In(h.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := util.ParseDate(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD", err))
			return
		}
		target = parsed
	}
	date := h.hijriSvc.Resolve(c.Request.Context(), target)
	c.JSON(http.StatusOK, gin.H{
		"gregorianDate": util.FormatDate(target),
		"hijriDate":     date,
	})
}

// PrayerTimes resolves today's schedule for the active provider.
func (h *Handler) PrayerTimes(c *gin.Context) {
	rec, err := h.prayerSvc.Resolve(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
		}
		abortWithError(c, NewHTTPError(status, "prayer_times_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetSettings returns the current provider selection.
func (h *Handler) GetSettings(c *gin.Context) {
	sel, err := h.settings.Current(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "settings_error", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, sel)
}

// UpdateSettings replaces the provider selection. Requires admin auth.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settings.Selection
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	sel, err := h.settings.Update(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_settings", errMessage(err), err))
		return
	}
	h.logger.Info("settings updated", "hijriProvider", sel.HijriProvider, "prayerProvider", sel.PrayerProvider)
	c.JSON(http.StatusOK, sel)
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin password for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	token, err := h.authSvc.Login(c.Request.Context(), req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if apperrors.IsCode(err, "auth_disabled") {
			status = http.StatusServiceUnavailable
		}
		abortWithError(c, NewHTTPError(status, "login_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Health reports liveness plus the resolution counters.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"resolution": h.counters.Read(),
	})
}

func errMessage(err error) string {
	return apperrors.Message(err)
}
