package book

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service provides book-related business logic.
type Service struct {
	repo     Repository
	covers   CoverStore
	enricher *Enricher
	log      *zap.Logger
	now      func() time.Time
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithCoverStore lets the service clean up uploaded covers it replaces or orphans.
func WithCoverStore(store CoverStore) Option {
	return func(s *Service) { s.covers = store }
}

// WithEnricher enables Enrich.
func WithEnricher(e *Enricher) Option {
	return func(s *Service) { s.enricher = e }
}

// NewService creates a new book service.
func NewService(repo Repository, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{repo: repo, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new book. It never calls external services.
func (s *Service) Create(ctx context.Context, userID string, in CreateBookInput) (Book, error) {
	var owner *string
	if userID != "" {
		owner = &userID
	}
	b := NewFromInput(uuid.NewString(), in, owner, s.now().UTC())
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	s.log.Info("book created", zap.String("book_id", b.ID), zap.String("isbn", b.ISBN))
	return b, nil
}

// Update applies a partial update. A replaced cover owned by the blob
// store is removed afterwards; failure to remove it is only logged.
func (s *Service) Update(ctx context.Context, id string, in UpdateBookInput) (Book, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	updated := in.Apply(current)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return Book{}, fmt.Errorf("update book: %w", err)
	}

	if current.CoverImage != updated.CoverImage {
		s.removeCover(ctx, current.CoverImage)
	}
	return updated, nil
}

// Delete removes a book permanently, then its cover blob best-effort.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeCover(ctx, current.CoverImage)
	s.log.Info("book deleted", zap.String("book_id", id))
	return nil
}

// Enrich fills descriptive fields from the configured enrichment sources.
// The stored record is only touched when enrichment produced changes.
func (s *Service) Enrich(ctx context.Context, id string) (Book, error) {
	if s.enricher == nil {
		return Book{}, ErrEnrichmentUnavailable
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	enriched, changed, err := s.enricher.Enrich(ctx, current)
	if err != nil {
		return Book{}, err
	}
	if !changed {
		return current, nil
	}
	if err := s.repo.Update(ctx, &enriched); err != nil {
		return Book{}, fmt.Errorf("store enriched book: %w", err)
	}
	return enriched, nil
}

func (s *Service) removeCover(ctx context.Context, url string) {
	if s.covers == nil || url == "" || !s.covers.Owns(url) {
		return
	}
	if err := s.covers.Delete(ctx, url); err != nil {
		s.log.Warn("cover cleanup failed", zap.String("url", url), zap.Error(err))
	}
}
