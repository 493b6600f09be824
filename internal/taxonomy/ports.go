package taxonomy

import "context"

// Table stores one kind of taxonomy entry. Names are unique per table,
// compared case-insensitively.
type Table[T Entry] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, e T) error
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, id string) error
}
