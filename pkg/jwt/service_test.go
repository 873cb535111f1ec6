package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceUsesConfiguredSecret(t *testing.T) {
	svc := NewService("configured-secret", time.Hour)

	token, err := svc.GenerateToken("viewer-1", "Dana")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "viewer-1", claims.ViewerID)
	assert.Equal(t, "Dana", claims.Name)

	// A service with a different secret must reject the token
	other := NewService("some-other-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestServiceUsesConfiguredExpiry(t *testing.T) {
	svc := NewService("configured-secret", 10*time.Minute)

	token, err := svc.GenerateToken("viewer-1", "Dana")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	ttl := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestServiceRejectsExpiredToken(t *testing.T) {
	svc := NewService("configured-secret", -time.Minute)

	token, err := svc.GenerateToken("viewer-1", "Dana")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
