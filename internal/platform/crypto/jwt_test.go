package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret-key"

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(secret, "user-123", "admin", "admin", time.Hour)
		require.NoError(t, err)
		assert.Len(t, token.ID, 32)

		claims, err := ParseToken(secret, token.Value)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Sub)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, token.ID, claims.ID)
		assert.True(t, token.ExpiresAt.Equal(claims.ExpiresAt.Time))
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := GenerateToken("", "user-123", "admin", "admin", time.Hour)
		assert.Error(t, err)
	})

	t.Run("invalid signature", func(t *testing.T) {
		token, err := GenerateToken("wrong-secret", "user-123", "admin", "admin", time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token.Value)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken(secret, "user-123", "admin", "admin", -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(secret, token.Value)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("algorithm none rejected", func(t *testing.T) {
		c := Claims{Sub: "user-123", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
		tkn := jwt.NewWithClaims(jwt.SigningMethodNone, c)
		token, err := tkn.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})
}
