package book

import (
	"errors"
	"net/http"

	"nurcatalog/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{service: service, log: log}
}

// Create handles POST /v1/admin/books
// @Summary Create book
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateBookInput true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/admin/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	var in CreateBookInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Update handles PATCH /v1/admin/books/{id}
// @Summary Update book
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body UpdateBookInput true "Changed fields"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/admin/books/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}

	var in UpdateBookInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /v1/admin/books/{id}
// @Summary Delete book
// @Tags admin
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/admin/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

// Enrich handles POST /v1/admin/books/{id}/enrich
// @Summary Enrich book metadata from Gemini and Open Library
// @Tags admin
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/admin/books/{id}/enrich [post]
func (h *HTTPHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}

	b, err := h.service.Enrich(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists", []httpx.ErrorDetail{
			{Field: "isbn", Message: "isbn already exists"},
		})
	case errors.Is(err, ErrEnrichmentUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "Enrichment is not configured", nil)
	case errors.Is(err, ErrEnrichmentFailed):
		httpx.JSONError(w, r, http.StatusBadGateway, "ENRICHMENT_FAILED", "Enrichment sources are unavailable", nil)
	default:
		h.log.Error("book request failed", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.InternalError(w, r)
	}
}
