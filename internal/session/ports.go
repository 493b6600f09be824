package session

import (
	"context"
	"time"
)

// RevocationStore remembers revoked token ids until the tokens would have
// expired on their own.
type RevocationStore interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
}
