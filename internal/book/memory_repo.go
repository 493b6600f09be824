package book

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nurcatalog/internal/platform/openlibrary"
)

// MemoryRepo keeps the catalog in process memory, optionally mirrored to a
// JSON snapshot file so edits survive restarts.
type MemoryRepo struct {
	mu       sync.RWMutex
	books    map[string]Book
	order    []string
	snapshot string
}

// NewMemoryRepo loads the snapshot at path when it exists, otherwise the
// given seed. An empty path disables persistence.
func NewMemoryRepo(seed []Book, path string) (*MemoryRepo, error) {
	r := &MemoryRepo{books: make(map[string]Book), snapshot: path}

	initial := seed
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var stored []Book
			if err := json.Unmarshal(data, &stored); err != nil {
				return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
			}
			initial = stored
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read snapshot %s: %w", path, err)
		}
	}

	for _, b := range initial {
		if b.Themes == nil {
			b.Themes = []string{}
		}
		r.books[b.ID] = b
		r.order = append(r.order, b.ID)
	}
	return r, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Book, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneBook(r.books[id]))
	}
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return cloneBook(b), nil
}

func (r *MemoryRepo) Create(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isbnTaken(b.ISBN, "") {
		return ErrDuplicateISBN
	}
	if _, exists := r.books[b.ID]; exists {
		return fmt.Errorf("book id %s already exists", b.ID)
	}
	next := cloneBook(*b)
	// Newest entries first, like the Postgres listing.
	order := append([]string{b.ID}, r.order...)
	if err := r.persist(order, &next); err != nil {
		return err
	}
	r.books[b.ID] = next
	r.order = order
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.books[b.ID]
	if !ok {
		return ErrNotFound
	}
	if r.isbnTaken(b.ISBN, b.ID) {
		return ErrDuplicateISBN
	}
	next := cloneBook(*b)
	next.CreatedAt = current.CreatedAt
	next.UserID = current.UserID
	if err := r.persist(r.order, &next); err != nil {
		return err
	}
	r.books[b.ID] = next
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	order := make([]string, 0, len(r.order))
	for _, existing := range r.order {
		if existing != id {
			order = append(order, existing)
		}
	}
	if err := r.persist(order, nil); err != nil {
		return err
	}
	delete(r.books, id)
	r.order = order
	return nil
}

// isbnTaken must be called with the lock held.
func (r *MemoryRepo) isbnTaken(isbn, exceptID string) bool {
	norm := openlibrary.NormalizeISBN(isbn)
	for id, b := range r.books {
		if id != exceptID && openlibrary.NormalizeISBN(b.ISBN) == norm {
			return true
		}
	}
	return false
}

// persist writes the catalog as it will look after a change: the given
// order, with changed replacing the stored copy of its id. State is only
// committed by the caller once this succeeds. Must be called with the lock held.
func (r *MemoryRepo) persist(order []string, changed *Book) error {
	if r.snapshot == "" {
		return nil
	}
	books := make([]Book, 0, len(order))
	for _, id := range order {
		if changed != nil && id == changed.ID {
			books = append(books, *changed)
			continue
		}
		books = append(books, r.books[id])
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.snapshot)
	tmp, err := os.CreateTemp(dir, ".books-*.json")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.snapshot); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func cloneBook(b Book) Book {
	b.Themes = append([]string{}, b.Themes...)
	return b
}

