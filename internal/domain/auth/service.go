package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/masjidclock/masjid-display/pkg/errors"
)

// Config holds the admin credential and token parameters.
type Config struct {
	AdminPasswordHash string
	Secret            string
	TokenTTL          time.Duration
}

// Service authenticates the display operator. The admin surface is a
// single shared credential: a kiosk has one operator, not user accounts.
type Service interface {
	Login(ctx context.Context, password string) (string, error)
	ValidateToken(ctx context.Context, token string) error
}

type service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService wires up the admin auth domain.
func NewService(cfg Config, logger *slog.Logger) Service {
	return &service{cfg: cfg, logger: logger.With("component", "auth.service")}
}

func (s *service) Login(_ context.Context, password string) (string, error) {
	if s.cfg.AdminPasswordHash == "" {
		return "", apperrors.Wrap("auth_disabled", "no admin password configured", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		s.logger.Warn("admin login rejected")
		return "", apperrors.Wrap("invalid_credentials", "password mismatch", nil)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ID:        newTokenID(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	return signed, nil
}

func (s *service) ValidateToken(_ context.Context, token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return apperrors.Wrap("invalid_token", "token expired", nil)
	}
	if claims.Subject != "admin" {
		return apperrors.Wrap("invalid_token", "unexpected subject", nil)
	}
	return nil
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
