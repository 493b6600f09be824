package main

import (
	"context"
	"net/http"
	"time"

	"nurcatalog/internal/auth"
	"nurcatalog/internal/book"
	"nurcatalog/internal/catalog"
	"nurcatalog/internal/httpx"
	"nurcatalog/internal/ingest"
	"nurcatalog/internal/search"
	"nurcatalog/internal/storage"
	"nurcatalog/internal/taxonomy"

	"go.uber.org/zap"
)

// handlers is everything the router mounts.
type handlers struct {
	catalog  *catalog.HTTPHandler
	search   *search.HTTPHandler
	books    *book.HTTPHandler
	taxonomy *taxonomy.HTTPHandler
	auth     *auth.HTTPHandler
	uploads  *storage.HTTPHandler
	jobs     *ingest.HTTPHandler // nil when no job secret is configured

	sessions httpx.SessionVerifier
	// mediaDir is served under /media/ when set.
	mediaDir string
	// ready reports whether backing stores are reachable.
	ready func(ctx context.Context) error
}

type routerOptions struct {
	corsOrigins    []string
	enableHSTS     bool
	maxBodyBytes   int64
	maxUploadBytes int64
	limiter        *httpx.RateLimitMiddleware // optional
}

func newRouter(h handlers, opts routerOptions, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// JSON endpoints share one body limit; uploads get their own.
	small := httpx.RequestSizeLimitMiddleware(opts.maxBodyBytes)
	large := httpx.RequestSizeLimitMiddleware(opts.maxUploadBytes + 64<<10)
	public := func(f http.HandlerFunc) http.Handler { return small(f) }
	admin := func(f http.HandlerFunc) http.Handler {
		return httpx.Chain(f, small, httpx.RequireSession(h.sessions))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if h.ready != nil {
			if err := h.ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("GET /v1/books", public(h.catalog.List))
	mux.Handle("GET /v1/books/{id}", public(h.catalog.Get))
	mux.Handle("GET /v1/facets", public(h.catalog.Facets))
	mux.Handle("POST /v1/search", public(h.search.Search))

	mux.Handle("GET /v1/categories", public(h.taxonomy.ListCategories))
	mux.Handle("GET /v1/authors", public(h.taxonomy.ListAuthors))
	mux.Handle("GET /v1/languages", public(h.taxonomy.ListLanguages))

	mux.Handle("POST /v1/auth/login", public(h.auth.Login))
	mux.Handle("POST /v1/auth/logout", public(h.auth.Logout))
	mux.Handle("GET /v1/auth/session", public(h.auth.Session))

	mux.Handle("POST /v1/admin/books", admin(h.books.Create))
	mux.Handle("PATCH /v1/admin/books/{id}", admin(h.books.Update))
	mux.Handle("DELETE /v1/admin/books/{id}", admin(h.books.Delete))
	mux.Handle("POST /v1/admin/books/{id}/enrich", admin(h.books.Enrich))

	mux.Handle("POST /v1/admin/uploads", httpx.Chain(http.HandlerFunc(h.uploads.Upload), large, httpx.RequireSession(h.sessions)))

	mux.Handle("POST /v1/admin/categories", admin(h.taxonomy.CreateCategory))
	mux.Handle("PATCH /v1/admin/categories/{id}", admin(h.taxonomy.UpdateCategory))
	mux.Handle("DELETE /v1/admin/categories/{id}", admin(h.taxonomy.DeleteCategory))
	mux.Handle("POST /v1/admin/authors", admin(h.taxonomy.CreateAuthor))
	mux.Handle("PATCH /v1/admin/authors/{id}", admin(h.taxonomy.UpdateAuthor))
	mux.Handle("DELETE /v1/admin/authors/{id}", admin(h.taxonomy.DeleteAuthor))
	mux.Handle("POST /v1/admin/languages", admin(h.taxonomy.CreateLanguage))
	mux.Handle("PATCH /v1/admin/languages/{id}", admin(h.taxonomy.UpdateLanguage))
	mux.Handle("DELETE /v1/admin/languages/{id}", admin(h.taxonomy.DeleteLanguage))

	if h.jobs != nil {
		mux.Handle("POST /internal/jobs/enrich", public(h.jobs.Enrich))
		mux.Handle("GET /internal/jobs/enrich/runs", public(h.jobs.Runs))
	}

	if h.mediaDir != "" {
		mux.Handle("GET "+storage.MediaPrefix, http.StripPrefix(storage.MediaPrefix, http.FileServer(http.Dir(h.mediaDir))))
	}

	mws := []httpx.Middleware{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(opts.enableHSTS),
		httpx.CORSMiddleware(opts.corsOrigins),
	}
	if opts.limiter != nil {
		mws = append(mws, opts.limiter.Middleware)
	}
	return httpx.Chain(mux, mws...)
}
