package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tableDef[T Entry] struct {
	name    string
	columns []string // without id
	scan    func(row pgx.Row) (T, error)
	values  func(e T) []any
}

// PostgresTable maps one taxonomy kind onto its table.
type PostgresTable[T Entry] struct {
	db      *pgxpool.Pool
	timeout time.Duration
	def     tableDef[T]

	selectQuery string
	insertQuery string
	updateQuery string
}

func newPostgresTable[T Entry](db *pgxpool.Pool, timeout time.Duration, def tableDef[T]) *PostgresTable[T] {
	cols := strings.Join(def.columns, ", ")
	placeholders := make([]string, len(def.columns))
	assignments := make([]string, len(def.columns))
	for i, c := range def.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		assignments[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}
	return &PostgresTable[T]{
		db:          db,
		timeout:     timeout,
		def:         def,
		selectQuery: fmt.Sprintf("SELECT id, %s FROM %s", cols, def.name),
		insertQuery: fmt.Sprintf("INSERT INTO %s (id, %s) VALUES ($1, %s)", def.name, cols, strings.Join(placeholders, ", ")),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", def.name, strings.Join(assignments, ", ")),
	}
}

func NewPostgresCategories(db *pgxpool.Pool, timeout time.Duration) *PostgresTable[Category] {
	return newPostgresTable(db, timeout, tableDef[Category]{
		name:    "categories",
		columns: []string{"name", "description"},
		scan: func(row pgx.Row) (Category, error) {
			var c Category
			err := row.Scan(&c.ID, &c.Name, &c.Description)
			return c, err
		},
		values: func(c Category) []any { return []any{c.Name, c.Description} },
	})
}

func NewPostgresAuthors(db *pgxpool.Pool, timeout time.Duration) *PostgresTable[AuthorInfo] {
	return newPostgresTable(db, timeout, tableDef[AuthorInfo]{
		name:    "author_infos",
		columns: []string{"name", "death_year", "image", "bio"},
		scan: func(row pgx.Row) (AuthorInfo, error) {
			var a AuthorInfo
			err := row.Scan(&a.ID, &a.Name, &a.DeathYear, &a.Image, &a.Bio)
			return a, err
		},
		values: func(a AuthorInfo) []any { return []any{a.Name, a.DeathYear, a.Image, a.Bio} },
	})
}

func NewPostgresLanguages(db *pgxpool.Pool, timeout time.Duration) *PostgresTable[Language] {
	return newPostgresTable(db, timeout, tableDef[Language]{
		name:    "languages",
		columns: []string{"name", "code"},
		scan: func(row pgx.Row) (Language, error) {
			var l Language
			err := row.Scan(&l.ID, &l.Name, &l.Code)
			return l, err
		},
		values: func(l Language) []any { return []any{l.Name, l.Code} },
	})
}

func (t *PostgresTable[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.timeout)
}

func (t *PostgresTable[T]) List(ctx context.Context) ([]T, error) {
	timeoutCtx, cancel := t.withTimeout(ctx)
	defer cancel()
	rows, err := t.db.Query(timeoutCtx, t.selectQuery+" ORDER BY lower(name)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		e, err := t.def.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (t *PostgresTable[T]) Get(ctx context.Context, id string) (T, error) {
	timeoutCtx, cancel := t.withTimeout(ctx)
	defer cancel()
	e, err := t.def.scan(t.db.QueryRow(timeoutCtx, t.selectQuery+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, ErrNotFound
	}
	return e, err
}

func (t *PostgresTable[T]) Create(ctx context.Context, e T) error {
	timeoutCtx, cancel := t.withTimeout(ctx)
	defer cancel()
	args := append([]any{e.key()}, t.def.values(e)...)
	_, err := t.db.Exec(timeoutCtx, t.insertQuery, args...)
	return mapWriteError(err)
}

func (t *PostgresTable[T]) Update(ctx context.Context, e T) error {
	timeoutCtx, cancel := t.withTimeout(ctx)
	defer cancel()
	args := append([]any{e.key()}, t.def.values(e)...)
	result, err := t.db.Exec(timeoutCtx, t.updateQuery, args...)
	if err != nil {
		return mapWriteError(err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *PostgresTable[T]) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := t.withTimeout(ctx)
	defer cancel()
	result, err := t.db.Exec(timeoutCtx, "DELETE FROM "+t.def.name+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
