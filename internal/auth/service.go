package auth

import (
	"context"
	"errors"
	"time"

	"nurcatalog/internal/httpx"
	"nurcatalog/internal/platform/crypto"
	"nurcatalog/internal/user"

	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// dummyHash is compared against when the username is unknown so both
// failure paths run bcrypt.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZrWjRTnqOcMlOtzZ3D2XyO"

// Users is the part of the user service auth depends on.
type Users interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Revocations records logged-out tokens.
type Revocations interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	secret   string
	ttl      time.Duration
	users    Users
	sessions Revocations
	log      *zap.Logger
}

func NewService(secret string, users Users, sessions Revocations, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		secret:   secret,
		ttl:      crypto.SessionTTL,
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

// Session is an issued login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		crypto.VerifyPassword(dummyHash, password)
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		s.log.Info("login rejected", zap.String("username", username))
		return Session{}, ErrUnauthorized
	}

	token, err := crypto.GenerateToken(s.secret, u.ID, u.Username, u.Role, s.ttl)
	if err != nil {
		return Session{}, err
	}
	s.log.Info("login", zap.String("user_id", u.ID))
	return Session{Token: token.Value, ExpiresAt: token.ExpiresAt, User: u}, nil
}

// Verify checks the token signature and expiry, that it was not revoked and
// that its subject still exists.
func (s *Service) Verify(ctx context.Context, token string) (httpx.Principal, error) {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return httpx.Principal{}, ErrUnauthorized
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return httpx.Principal{}, err
	}
	if revoked {
		return httpx.Principal{}, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, claims.Sub)
	if err != nil {
		return httpx.Principal{}, ErrUnauthorized
	}
	return httpx.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.sessions.Revoke(ctx, claims.ID, claims.Sub, expiresAt)
}
