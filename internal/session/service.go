package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	store RevocationStore
	log   *zap.Logger
}

func NewService(store RevocationStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return s.store.Revoke(ctx, jti, userID, expiresAt)
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.store.IsRevoked(ctx, jti)
}

// RunCleanup purges expired revocations every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.CleanupExpired(ctx)
			if err != nil {
				s.log.Warn("revoked session cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Debug("revoked sessions purged", zap.Int64("count", n))
			}
		}
	}
}
