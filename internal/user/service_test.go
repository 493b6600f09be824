package user

import (
	"context"
	"testing"

	"nurcatalog/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo(), nil)

	u, err := svc.Register(ctx, " curator ", "hash", "")
	require.NoError(t, err)
	assert.Equal(t, "curator", u.Username)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NotEmpty(t, u.ID)

	_, err = svc.Register(ctx, "curator", "hash", "")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := svc.GetByUsername(ctx, "curator")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then refreshes", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc := NewService(repo, nil)

		first, err := svc.EnsureAdmin(ctx, "admin", "admin", false)
		require.NoError(t, err)
		assert.True(t, crypto.VerifyPassword(first.PasswordHash, "admin"))

		second, err := svc.EnsureAdmin(ctx, "admin", "changed", false)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		stored, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, crypto.VerifyPassword(stored.PasswordHash, "changed"))
	})

	t.Run("weak password rejected when strict", func(t *testing.T) {
		svc := NewService(NewMemoryRepo(), nil)
		_, err := svc.EnsureAdmin(ctx, "admin", "admin", true)
		assert.ErrorIs(t, err, crypto.ErrPasswordTooShort)
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc := NewService(NewMemoryRepo(), nil)
		_, err := svc.EnsureAdmin(ctx, "", "x", false)
		assert.Error(t, err)
	})
}
