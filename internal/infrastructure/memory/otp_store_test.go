package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bookworm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPStore_PutGetDelete(t *testing.T) {
	s := NewOTPStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "5551234567", "123456", 5*time.Minute))

	entry, err := s.Get(ctx, "5551234567")
	require.NoError(t, err)
	assert.Equal(t, "123456", entry.Code)
	assert.Equal(t, "5551234567", entry.Phone)

	require.NoError(t, s.Delete(ctx, "5551234567"))
	_, err = s.Get(ctx, "5551234567")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOTPStore_GetAbsent(t *testing.T) {
	s := NewOTPStore()
	_, err := s.Get(context.Background(), "none")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOTPStore_PutOverwrites(t *testing.T) {
	s := NewOTPStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "555", "111111", 5*time.Minute))
	require.NoError(t, s.Put(ctx, "555", "222222", 5*time.Minute))

	entry, err := s.Get(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, "222222", entry.Code)
}

func TestOTPStore_ExpiryUsesInjectedClock(t *testing.T) {
	s := NewOTPStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return base })

	require.NoError(t, s.Put(context.Background(), "555", "123456", 5*time.Minute))

	entry, err := s.Get(context.Background(), "555")
	require.NoError(t, err)
	assert.Equal(t, base.Add(5*time.Minute), entry.ExpiresAt)
}

func TestOTPStore_DeleteIsIdempotent(t *testing.T) {
	s := NewOTPStore()
	assert.NoError(t, s.Delete(context.Background(), "never-stored"))
}
