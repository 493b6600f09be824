package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nurcatalog/internal/platform/crypto"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// Register stores a new account with an already hashed password.
func (s *Service) Register(ctx context.Context, username, passwordHash, role string) (User, error) {
	username = strings.TrimSpace(username)
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return User{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	if role == "" {
		role = RoleAdmin
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

// EnsureAdmin creates the bootstrap admin, or resets its password when the
// account already exists. requireStrong rejects weak passwords.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string, requireStrong bool) (User, error) {
	if username == "" || password == "" {
		return User{}, errors.New("admin username and password are required")
	}
	if requireStrong {
		if err := crypto.ValidatePasswordStrength(password); err != nil {
			return User{}, fmt.Errorf("admin password: %w", err)
		}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if err := s.repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return User{}, err
		}
		existing.PasswordHash = hash
		s.log.Info("admin password refreshed", zap.String("username", username))
		return existing, nil
	case errors.Is(err, ErrNotFound):
		u, err := s.Register(ctx, username, hash, RoleAdmin)
		if err != nil {
			return User{}, err
		}
		s.log.Info("admin user created", zap.String("username", username))
		return u, nil
	default:
		return User{}, err
	}
}
