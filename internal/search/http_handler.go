package search

import (
	"context"
	"net/http"
	"strings"

	"nurcatalog/internal/book"
	"nurcatalog/internal/catalog"
	"nurcatalog/internal/httpx"
)

// Catalog lists every book the search runs against.
type Catalog interface {
	List(ctx context.Context) ([]book.Book, error)
}

type HTTPHandler struct {
	svc   *Service
	books Catalog
}

func NewHTTPHandler(svc *Service, books Catalog) *HTTPHandler {
	return &HTTPHandler{svc: svc, books: books}
}

// Request is the body of POST /v1/search.
type Request struct {
	Query    string          `json:"query" validate:"max=500"`
	Filters  catalog.Filters `json:"filters"`
	Sort     string          `json:"sort"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size" validate:"gte=0,lte=100"`
}

// Response pairs the page of matches with what the model said about them.
type Response struct {
	Books               []book.Book `json:"books"`
	Explanation         string      `json:"explanation,omitempty"`
	ExternalSuggestions []string    `json:"external_suggestions,omitempty"`
	Sources             []Source    `json:"sources,omitempty"`
	Fallback            bool        `json:"fallback"`
}

// Search handles POST /v1/search
// @Summary Natural-language catalog search
// @Tags search
// @Accept json
// @Produce json
// @Param request body Request true "Search request"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/search [post]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	books, err := h.books.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r)
		return
	}

	query := strings.TrimSpace(req.Query)
	res := h.svc.Search(r.Context(), query, books)

	params := catalog.Params{
		Filters:  req.Filters,
		Sort:     catalog.ParseSort(req.Sort),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if query != "" {
		params.AIActive = true
		params.AIMatches = res.BookIDs
	}
	page := catalog.Run(books, params)

	httpx.JSONSuccess(w, r, Response{
		Books:               page.Books,
		Explanation:         res.Explanation,
		ExternalSuggestions: res.ExternalSuggestions,
		Sources:             res.Sources,
		Fallback:            res.Fallback,
	}, catalog.PageMeta(page))
}
