package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Revoke(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo(), nil)

	revoked, err := svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, "jti-1", "user-1", time.Now().Add(time.Hour)))
	revoked, err = svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryRepo_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Revoke(ctx, "old", "u", time.Now().Add(-time.Minute)))
	require.NoError(t, repo.Revoke(ctx, "live", "u", time.Now().Add(time.Hour)))

	revoked, _ := repo.IsRevoked(ctx, "old")
	assert.False(t, revoked)

	n, err := repo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	revoked, _ = repo.IsRevoked(ctx, "live")
	assert.True(t, revoked)
}

func TestService_RunCleanupStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := NewMemoryRepo()
	require.NoError(t, repo.Revoke(ctx, "old", "u", time.Now().Add(-time.Minute)))
	svc := NewService(repo, nil)

	done := make(chan struct{})
	go func() {
		svc.RunCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		repo.mu.RLock()
		defer repo.mu.RUnlock()
		return len(repo.revoked) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
