package book

import (
	"context"

	"nurcatalog/internal/platform/gemini"
	"nurcatalog/internal/platform/openlibrary"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}

// CoverStore is the subset of the blob store the book service needs.
type CoverStore interface {
	Owns(url string) bool
	Delete(ctx context.Context, url string) error
}

// TextGenerator produces model text for enrichment prompts.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts gemini.Options) (*gemini.Response, error)
}

// MetadataLookup fetches bibliographic metadata by ISBN.
type MetadataLookup interface {
	GetBookByISBN(ctx context.Context, isbn string) (*openlibrary.BookDetails, error)
}
