package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/masjidclock/masjid-display/pkg/errors"
)

func newTestService(t *testing.T, password string, ttl time.Duration) Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(Config{
		AdminPasswordHash: string(hash),
		Secret:            "test-secret",
		TokenTTL:          ttl,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t, "correct horse", time.Hour)

	token, err := svc.Login(context.Background(), "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ValidateToken(context.Background(), token))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t, "correct horse", time.Hour)

	_, err := svc.Login(context.Background(), "battery staple")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Login(context.Background(), "anything")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "auth_disabled"))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t, "correct horse", -time.Minute)

	token, err := svc.Login(context.Background(), "correct horse")
	require.NoError(t, err)

	err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, "correct horse", time.Hour)

	err := svc.ValidateToken(context.Background(), "not.a.jwt")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := newTestService(t, "correct horse", time.Hour)
	verifier := NewService(Config{
		AdminPasswordHash: "unused",
		Secret:            "another-secret",
		TokenTTL:          time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	token, err := issuer.Login(context.Background(), "correct horse")
	require.NoError(t, err)

	err = verifier.ValidateToken(context.Background(), token)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}
