package catalog

import (
	"context"

	"nurcatalog/internal/book"
)

// Source supplies the full catalog. *book.Service satisfies it.
type Source interface {
	List(ctx context.Context) ([]book.Book, error)
	Get(ctx context.Context, id string) (book.Book, error)
}

type Service struct {
	books Source
}

func NewService(books Source) *Service {
	return &Service{books: books}
}

// Detail is a single book with its recommendations.
type Detail struct {
	Book    book.Book   `json:"book"`
	Related []book.Book `json:"related"`
}

func (s *Service) Browse(ctx context.Context, p Params) (Page, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return Page{}, err
	}
	return Run(books, p), nil
}

func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	target, err := s.books.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	books, err := s.books.List(ctx)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Book: target, Related: Related(target, books, DefaultRelated)}, nil
}

func (s *Service) Facets(ctx context.Context) (Facets, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return Facets{}, err
	}
	return DeriveFacets(books), nil
}
