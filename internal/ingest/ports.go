package ingest

import (
	"context"

	"nurcatalog/internal/book"
)

// Repository keeps the history of backfill runs.
type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
	LinkBookToRun(ctx context.Context, runID, bookID string) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Catalog is the part of the book service the backfill drives.
type Catalog interface {
	List(ctx context.Context) ([]book.Book, error)
	Enrich(ctx context.Context, id string) (book.Book, error)
}
