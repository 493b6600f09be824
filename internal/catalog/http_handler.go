package catalog

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"nurcatalog/internal/book"
	"nurcatalog/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// ParamsFromQuery reads filters, query, sort and page from URL parameters.
// A missing page means page 1.
func ParamsFromQuery(q url.Values) Params {
	maxPages, _ := strconv.Atoi(q.Get("max_pages"))
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{
		Filters: Filters{
			Category: q.Get("category"),
			Century:  q.Get("century"),
			Language: q.Get("language"),
			Theme:    q.Get("theme"),
			Author:   q.Get("author"),
			MaxPages: maxPages,
		},
		Query:    q.Get("q"),
		Sort:     ParseSort(q.Get("sort")),
		Page:     page,
		PageSize: pageSize,
	}
}

// PageMeta is the pagination block of a list response.
func PageMeta(p Page) map[string]any {
	return map[string]any{
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total_pages": p.TotalPages,
		"filtered":    p.Filtered,
		"total":       p.Total,
	}
}

// List handles GET /v1/books
// @Summary Browse the catalog
// @Tags catalog
// @Produce json
// @Param category query string false "Category"
// @Param century query string false "Century, e.g. 12th Century"
// @Param language query string false "Language"
// @Param theme query string false "Theme"
// @Param author query string false "Author substring"
// @Param max_pages query int false "Maximum page count"
// @Param q query string false "Free text"
// @Param sort query string false "Oldest, Newest or Title A-Z"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Browse(r.Context(), ParamsFromQuery(r.URL.Query()))
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, page.Books, PageMeta(page))
}

// Get handles GET /v1/books/{id}
// @Summary Get a book with related recommendations
// @Tags catalog
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book ID is required", nil)
		return
	}

	detail, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, detail, nil)
}

// Facets handles GET /v1/facets
// @Summary Filter selector options
// @Tags catalog
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/facets [get]
func (h *HTTPHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.svc.Facets(r.Context())
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, facets, nil)
}
