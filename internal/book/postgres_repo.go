package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectColumns = `
	SELECT id, title, author, category, year, description, historical_context,
	       themes, cover_image, isbn, pages, language, publisher, price::text,
	       in_stock, user_id, created_at
	FROM books`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Category, &b.Year, &b.Description, &b.HistoricalContext,
		&b.Themes, &b.CoverImage, &b.ISBN, &b.Pages, &b.Language, &b.Publisher, &b.Price,
		&b.InStock, &b.UserID, &b.CreatedAt,
	)
	if b.Themes == nil {
		b.Themes = []string{}
	}
	return b, err
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, selectColumns+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, selectColumns+` WHERE id = $1 LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (id, title, author, category, year, description, historical_context,
	                   themes, cover_image, isbn, pages, language, publisher, price, in_stock, user_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::numeric, $15, $16)
	RETURNING created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.Category, b.Year, b.Description, b.HistoricalContext,
		themesOrEmpty(b.Themes), b.CoverImage, b.ISBN, b.Pages, b.Language, b.Publisher, b.Price, b.InStock, b.UserID,
	).Scan(&b.CreatedAt)
	return mapWriteError(err)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
	UPDATE books SET
		title = $2, author = $3, category = $4, year = $5, description = $6,
		historical_context = $7, themes = $8, cover_image = $9, isbn = $10, pages = $11,
		language = $12, publisher = $13, price = $14::numeric, in_stock = $15
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.Category, b.Year, b.Description,
		b.HistoricalContext, themesOrEmpty(b.Themes), b.CoverImage, b.ISBN, b.Pages,
		b.Language, b.Publisher, b.Price, b.InStock,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
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
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "books_isbn_unique" {
		return ErrDuplicateISBN
	}
	return err
}

func themesOrEmpty(themes []string) []string {
	if themes == nil {
		return []string{}
	}
	return themes
}
