package main

import (
	"context"
	"flag"
	"os"
	"time"

	"nurcatalog/internal/book"
	"nurcatalog/internal/config"
	"nurcatalog/internal/logging"
	"nurcatalog/internal/taxonomy"
	"nurcatalog/internal/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	skipAdmin := flag.Bool("skip-admin", false, "Do not create or refresh the admin user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log, closer := logging.New(logging.Options{Level: cfg.LogLevel})
	defer closer.Close()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	books, err := book.SeedBooks()
	if err != nil {
		log.Fatal("failed to load seed catalog", zap.Error(err))
	}
	inserted, err := seedBooks(ctx, pool, books)
	if err != nil {
		log.Fatal("failed to insert books", zap.Error(err))
	}
	log.Info("books seeded", zap.Int64("inserted", inserted), zap.Int("total", len(books)))

	tax, err := taxonomy.LoadSeed()
	if err != nil {
		log.Fatal("failed to load seed taxonomy", zap.Error(err))
	}
	if err := seedTaxonomy(ctx, pool, tax); err != nil {
		log.Fatal("failed to insert taxonomy", zap.Error(err))
	}
	log.Info("taxonomy seeded",
		zap.Int("categories", len(tax.Categories)),
		zap.Int("authors", len(tax.Authors)),
		zap.Int("languages", len(tax.Languages)),
	)

	if *skipAdmin {
		return
	}
	users := user.NewService(user.NewPostgresRepo(pool, cfg.DBTimeout), log)
	if _, err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, !cfg.IsDevelopment()); err != nil {
		log.Fatal("failed to ensure admin user", zap.Error(err))
	}
}

func seedBooks(ctx context.Context, pool *pgxpool.Pool, books []book.Book) (int64, error) {
	const query = `
	INSERT INTO books (id, title, author, category, year, description, historical_context,
	                   themes, cover_image, isbn, pages, language, publisher, price, in_stock, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::numeric, $15, $16)
	ON CONFLICT DO NOTHING
	`
	// Seed entries keep their catalog order when listed newest first.
	base := time.Now().UTC()
	batch := &pgx.Batch{}
	for i, b := range books {
		createdAt := base.Add(-time.Duration(i) * time.Second)
		batch.Queue(query,
			b.ID, b.Title, b.Author, b.Category, b.Year, b.Description, b.HistoricalContext,
			b.Themes, b.CoverImage, b.ISBN, b.Pages, b.Language, b.Publisher, b.Price, b.InStock, createdAt,
		)
	}
	return execBatch(ctx, pool, batch)
}

func seedTaxonomy(ctx context.Context, pool *pgxpool.Pool, seed taxonomy.Seed) error {
	batch := &pgx.Batch{}
	for _, c := range seed.Categories {
		batch.Queue(`INSERT INTO categories (id, name, description) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			c.ID, c.Name, c.Description)
	}
	for _, a := range seed.Authors {
		batch.Queue(`INSERT INTO author_infos (id, name, death_year, image, bio) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			a.ID, a.Name, a.DeathYear, a.Image, a.Bio)
	}
	for _, l := range seed.Languages {
		batch.Queue(`INSERT INTO languages (id, name, code) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			l.ID, l.Name, l.Code)
	}
	_, err := execBatch(ctx, pool, batch)
	return err
}

func execBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch) (int64, error) {
	results := pool.SendBatch(ctx, batch)

	var affected int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return affected, err
		}
		affected += tag.RowsAffected()
	}
	return affected, results.Close()
}
