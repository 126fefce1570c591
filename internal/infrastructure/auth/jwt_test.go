package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibooks/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Issuer:     "medibooks-test",
		Expiration: 15 * time.Minute,
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	actorID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(actorID, "pharmacist1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actorID.String(), claims.ActorID)
	assert.Equal(t, "pharmacist1", claims.Username)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateToken(uuid.New(), "pharmacist1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	other := NewJWTService(config.JWTConfig{
		Secret:     "a-completely-different-signing-key",
		Issuer:     "medibooks-test",
		Expiration: 15 * time.Minute,
	})

	token, _, err := other.GenerateToken(uuid.New(), "pharmacist1")
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Issuer:     "medibooks-test",
		Expiration: -time.Minute,
	})

	token, _, err := svc.GenerateToken(uuid.New(), "pharmacist1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
