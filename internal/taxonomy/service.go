package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages categories, author profiles and languages.
type Service struct {
	categories Table[Category]
	authors    Table[AuthorInfo]
	languages  Table[Language]
	log        *zap.Logger
	newID      func() string
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(categories Table[Category], authors Table[AuthorInfo], languages Table[Language], opts ...Option) *Service {
	s := &Service{
		categories: categories,
		authors:    authors,
		languages:  languages,
		log:        zap.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	c := Category{ID: s.newID(), Name: strings.TrimSpace(in.Name), Description: in.Description}
	return create(ctx, s, s.categories, c)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, p CategoryPatch) (Category, error) {
	return update(ctx, s, s.categories, id, p.apply)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return remove(ctx, s, s.categories, id)
}

func (s *Service) Authors(ctx context.Context) ([]AuthorInfo, error) {
	return s.authors.List(ctx)
}

func (s *Service) CreateAuthor(ctx context.Context, in AuthorInput) (AuthorInfo, error) {
	a := AuthorInfo{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		DeathYear: in.DeathYear,
		Image:     in.Image,
		Bio:       in.Bio,
	}
	return create(ctx, s, s.authors, a)
}

func (s *Service) UpdateAuthor(ctx context.Context, id string, p AuthorPatch) (AuthorInfo, error) {
	return update(ctx, s, s.authors, id, p.apply)
}

func (s *Service) DeleteAuthor(ctx context.Context, id string) error {
	return remove(ctx, s, s.authors, id)
}

func (s *Service) Languages(ctx context.Context) ([]Language, error) {
	return s.languages.List(ctx)
}

func (s *Service) CreateLanguage(ctx context.Context, in LanguageInput) (Language, error) {
	l := Language{ID: s.newID(), Name: strings.TrimSpace(in.Name), Code: strings.ToLower(strings.TrimSpace(in.Code))}
	return create(ctx, s, s.languages, l)
}

func (s *Service) UpdateLanguage(ctx context.Context, id string, p LanguagePatch) (Language, error) {
	return update(ctx, s, s.languages, id, p.apply)
}

func (s *Service) DeleteLanguage(ctx context.Context, id string) error {
	return remove(ctx, s, s.languages, id)
}

func create[T Entry](ctx context.Context, s *Service, table Table[T], e T) (T, error) {
	if e.label() == "" {
		var zero T
		return zero, ErrEmptyName
	}
	if err := table.Create(ctx, e); err != nil {
		var zero T
		return zero, fmt.Errorf("create %q: %w", e.label(), err)
	}
	s.log.Info("taxonomy entry created", zap.String("id", e.key()), zap.String("name", e.label()))
	return e, nil
}

func update[T Entry](ctx context.Context, s *Service, table Table[T], id string, apply func(T) T) (T, error) {
	var zero T
	current, err := table.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	next := apply(current)
	if strings.TrimSpace(next.label()) == "" {
		return zero, ErrEmptyName
	}
	if err := table.Update(ctx, next); err != nil {
		return zero, fmt.Errorf("update %s: %w", id, err)
	}
	return next, nil
}

func remove[T Entry](ctx context.Context, s *Service, table Table[T], id string) error {
	if err := table.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("taxonomy entry deleted", zap.String("id", id))
	return nil
}
