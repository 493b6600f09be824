package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nurcatalog/internal/auth"
	"nurcatalog/internal/book"
	"nurcatalog/internal/catalog"
	"nurcatalog/internal/config"
	"nurcatalog/internal/httpx"
	"nurcatalog/internal/ingest"
	"nurcatalog/internal/logging"
	"nurcatalog/internal/platform/gemini"
	"nurcatalog/internal/platform/openlibrary"
	"nurcatalog/internal/search"
	"nurcatalog/internal/session"
	"nurcatalog/internal/storage"
	"nurcatalog/internal/taxonomy"
	"nurcatalog/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, closer := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   true,
	})
	defer closer.Close()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = closer.Close()
		os.Exit(1)
	}
}

// stores holds the repository implementations chosen by STORE_DRIVER.
type stores struct {
	books      book.Repository
	users      user.Repository
	sessions   session.RevocationStore
	taxonomy   *taxonomy.Service
	ingestRuns ingest.Repository
	ready      func(ctx context.Context) error
	close      func()
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// Only a real client may go behind the interfaces; a typed nil would look configured.
	var (
		text      book.TextGenerator
		generator search.Generator
	)
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
		if err != nil {
			return err
		}
		text, generator = client, client
		log.Info("gemini enabled", zap.String("model", client.Model()), zap.Bool("grounding", cfg.AIGrounding))
	} else {
		log.Warn("GEMINI_API_KEY not set; smart search uses keyword fallback")
	}

	openLibrary := openlibrary.NewClient("NurCatalog/1.0", cfg.OpenLibraryRPS, cfg.OpenLibraryRetries).
		WithBaseURL(cfg.OpenLibraryBaseURL)

	blobs, mediaDir, err := openBlobStore(cfg)
	if err != nil {
		return err
	}

	bookService := book.NewService(st.books, log,
		book.WithCoverStore(blobs),
		book.WithEnricher(book.NewEnricher(text, openLibrary, log)),
	)
	userService := user.NewService(st.users, log)
	sessionService := session.NewService(st.sessions, log)
	authService := auth.NewService(cfg.EffectiveSessionSecret(), userService, sessionService, log)

	if cfg.StoreDriver == config.StoreMemory {
		password := cfg.AdminPassword
		if password == "" && cfg.IsDevelopment() {
			password = "admin"
			log.Warn("ADMIN_PASSWORD not set; using the development default")
		}
		if _, err := userService.EnsureAdmin(ctx, cfg.AdminUsername, password, !cfg.IsDevelopment()); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	go sessionService.RunCleanup(ctx, cfg.SessionCleanupInterval)

	h := handlers{
		catalog:  catalog.NewHTTPHandler(catalog.NewService(bookService)),
		search:   search.NewHTTPHandler(search.NewService(generator, cfg.AIGrounding, log), bookService),
		books:    book.NewHTTPHandler(bookService, log),
		taxonomy: taxonomy.NewHTTPHandler(st.taxonomy, log),
		auth:     auth.NewHTTPHandler(authService, cfg.SecureCookie),
		uploads:  storage.NewHTTPHandler(blobs, cfg.MaxUploadBytes, log),
		sessions: authService,
		mediaDir: mediaDir,
		ready:    st.ready,
	}
	if cfg.InternalJobSecret != "" {
		jobs := ingest.NewService(bookService, st.ingestRuns, ingest.Config{BooksMax: cfg.EnrichBatchMax, Pause: cfg.EnrichPause}, log)
		h.jobs = ingest.NewHTTPHandler(jobs, cfg.InternalJobSecret)
	}

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := newRouter(h, routerOptions{
		corsOrigins:    cfg.CORSOrigins,
		enableHSTS:     !cfg.IsDevelopment(),
		maxBodyBytes:   cfg.MaxBodyBytes,
		maxUploadBytes: cfg.MaxUploadBytes,
		limiter:        limiter,
	}, log)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout + 10*time.Second, // smart search waits on the model
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (stores, error) {
	if cfg.StoreDriver == config.StorePostgres {
		pool, err := openDB(ctx, cfg.DatabaseDSN, log)
		if err != nil {
			return stores{}, err
		}
		return stores{
			books:    book.NewPostgresRepo(pool, cfg.DBTimeout),
			users:    user.NewPostgresRepo(pool, cfg.DBTimeout),
			sessions: session.NewPostgresRepo(pool, cfg.DBTimeout),
			taxonomy: taxonomy.NewService(
				taxonomy.NewPostgresCategories(pool, cfg.DBTimeout),
				taxonomy.NewPostgresAuthors(pool, cfg.DBTimeout),
				taxonomy.NewPostgresLanguages(pool, cfg.DBTimeout),
				taxonomy.WithLogger(log),
			),
			ingestRuns: ingest.NewPostgresRepo(pool, cfg.DBTimeout),
			ready:      pool.Ping,
			close:      pool.Close,
		}, nil
	}

	seed, err := book.SeedBooks()
	if err != nil {
		return stores{}, err
	}
	books, err := book.NewMemoryRepo(seed, cfg.BooksSnapshot)
	if err != nil {
		return stores{}, err
	}
	tax, err := taxonomy.LoadSeed()
	if err != nil {
		return stores{}, err
	}
	return stores{
		books:      books,
		users:      user.NewMemoryRepo(),
		sessions:   session.NewMemoryRepo(),
		taxonomy:   taxonomy.NewMemoryService(tax, taxonomy.WithLogger(log)),
		ingestRuns: ingest.NewMemoryRepo(),
		close:      func() {},
	}, nil
}

func openBlobStore(cfg config.Config) (storage.Store, string, error) {
	switch cfg.StorageDriver {
	case config.StorageSupabase:
		return storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket, 30*time.Second), "", nil
	case config.StorageLocal:
		local, err := storage.NewLocal(cfg.MediaDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	default:
		return storage.None{}, "", nil
	}
}

func openDB(ctx context.Context, dsn string, log *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	log.Info("database connection OK")
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
