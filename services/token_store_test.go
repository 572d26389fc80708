package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore_Revoke(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTokenStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "tok", now.Add(time.Hour)))
	assert.True(t, s.IsRevoked(ctx, "tok"))
	assert.False(t, s.IsRevoked(ctx, "other"))

	now = now.Add(2 * time.Hour)
	assert.False(t, s.IsRevoked(ctx, "tok"))
}

func TestMemoryTokenStore_FailedLogins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTokenStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 1; i <= 3; i++ {
		n, err := s.RegisterFailedLogin(ctx, "Owner@Example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
	assert.Equal(t, int64(3), s.FailedLogins(ctx, "owner@example.com"))

	now = now.Add(LoginLockout + time.Second)
	assert.Equal(t, int64(0), s.FailedLogins(ctx, "owner@example.com"))

	_, _ = s.RegisterFailedLogin(ctx, "owner@example.com")
	require.NoError(t, s.ResetFailedLogins(ctx, "owner@example.com"))
	assert.Equal(t, int64(0), s.FailedLogins(ctx, "owner@example.com"))
}
