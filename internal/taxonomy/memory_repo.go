package taxonomy

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryTable keeps entries in a map, listed by name.
type MemoryTable[T Entry] struct {
	mu      sync.RWMutex
	entries map[string]T
}

func NewMemoryTable[T Entry](seed ...T) *MemoryTable[T] {
	t := &MemoryTable[T]{entries: make(map[string]T, len(seed))}
	for _, e := range seed {
		t.entries[e.key()] = e
	}
	return t
}

func (t *MemoryTable[T]) List(ctx context.Context) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].label()) < strings.ToLower(out[j].label())
	})
	return out, nil
}

func (t *MemoryTable[T]) Get(ctx context.Context, id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return e, nil
}

func (t *MemoryTable[T]) Create(ctx context.Context, e T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nameTaken(e.label(), "") {
		return ErrDuplicate
	}
	t.entries[e.key()] = e
	return nil
}

func (t *MemoryTable[T]) Update(ctx context.Context, e T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[e.key()]; !ok {
		return ErrNotFound
	}
	if t.nameTaken(e.label(), e.key()) {
		return ErrDuplicate
	}
	t.entries[e.key()] = e
	return nil
}

func (t *MemoryTable[T]) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[id]; !ok {
		return ErrNotFound
	}
	delete(t.entries, id)
	return nil
}

// nameTaken must be called with the lock held.
func (t *MemoryTable[T]) nameTaken(name, exceptID string) bool {
	for id, e := range t.entries {
		if id != exceptID && sameName(e.label(), name) {
			return true
		}
	}
	return false
}
