package ingest

import (
	"context"
	"fmt"
	"sync"
)

type MemoryRepo struct {
	mu    sync.Mutex
	runs  []Run // newest last
	books map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{books: make(map[string][]string)}
}

func (r *MemoryRepo) CreateRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *MemoryRepo) UpdateRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.runs {
		if r.runs[i].ID == run.ID {
			r.runs[i] = *run
			return nil
		}
	}
	return fmt.Errorf("run %s not found", run.ID)
}

func (r *MemoryRepo) LinkBookToRun(ctx context.Context, runID, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[runID] = append(r.books[runID], bookID)
	return nil
}

// BooksForRun returns the ids of books enriched by a run.
func (r *MemoryRepo) BooksForRun(runID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.books[runID]...)
}

func (r *MemoryRepo) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Run{}
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
