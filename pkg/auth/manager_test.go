package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gigs-work/backend/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	manager, err := NewManager(config.JWTConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	})
	require.NoError(t, err)

	return manager
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(config.JWTConfig{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	require.Error(t, err)

	_, err = NewManager(config.JWTConfig{SigningKey: "k", RefreshTokenTTL: time.Hour})
	require.Error(t, err)

	_, err = NewManager(config.JWTConfig{SigningKey: "k", AccessTokenTTL: time.Minute})
	require.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	userID := uuid.New()
	token, ttl, err := manager.NewJWT(userID)
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, ttl)

	parsed, err := manager.Parse(token)
	require.NoError(t, err)
	require.Equal(t, userID, parsed)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	manager := newTestManager(t)

	other, err := NewManager(config.JWTConfig{
		SigningKey:      "another-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	token, _, err := other.NewJWT(uuid.New())
	require.NoError(t, err)

	_, err = manager.Parse(token)
	require.Error(t, err)
}

func TestValidateRefreshToken(t *testing.T) {
	manager := newTestManager(t)

	token, ttl, err := manager.NewRefreshToken()
	require.NoError(t, err)
	require.Equal(t, 720*time.Hour, ttl)

	validated, err := manager.ValidateRefreshToken(token.String())
	require.NoError(t, err)
	require.Equal(t, token, *validated)

	_, err = manager.ValidateRefreshToken("not-a-uuid")
	require.Error(t, err)
}
