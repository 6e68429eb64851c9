package jwtinfra

import (
	"testing"
	"time"

	"github.com/bookworm-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: 15 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	assert.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t)

	token, err := p.Sign("u1")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestVerify_ValidityWindow(t *testing.T) {
	p := newTestProvider(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p.SetClock(func() time.Time { return issued })
	token, err := p.Sign("u1")
	require.NoError(t, err)

	// Still valid one day before expiry.
	p.SetClock(func() time.Time { return issued.Add(14 * 24 * time.Hour) })
	_, err = p.Verify(token)
	assert.NoError(t, err)

	// Expired one second past the window.
	p.SetClock(func() time.Time { return issued.Add(15*24*time.Hour + time.Second) })
	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_TamperedSignature(t *testing.T) {
	p := newTestProvider(t)

	token, err := p.Sign("u1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = p.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	other, err := NewProvider(&config.Config{JWTSecret: "different", JWTExpiry: time.Hour})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrMalformed)
}
