package taxonomy

import (
	"context"
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

// ListCategories handles GET /v1/categories
// @Summary List categories
// @Tags taxonomy
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/categories [get]
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeList(h, w, r, h.service.Categories)
}

// CreateCategory handles POST /v1/admin/categories
// @Summary Create category
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CategoryInput true "Category"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/admin/categories [post]
func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	handleCreate(h, w, r, h.service.CreateCategory)
}

// UpdateCategory handles PATCH /v1/admin/categories/{id}
// @Summary Update category
// @Tags admin
// @Param id path string true "Category ID"
// @Param request body CategoryPatch true "Changed fields"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/admin/categories/{id} [patch]
func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h, w, r, h.service.UpdateCategory)
}

// DeleteCategory handles DELETE /v1/admin/categories/{id}
// @Summary Delete category
// @Tags admin
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Router /v1/admin/categories/{id} [delete]
func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	handleDelete(h, w, r, h.service.DeleteCategory)
}

// ListAuthors handles GET /v1/authors
// @Summary List author profiles
// @Tags taxonomy
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/authors [get]
func (h *HTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	writeList(h, w, r, h.service.Authors)
}

// CreateAuthor handles POST /v1/admin/authors
// @Summary Create author profile
// @Tags admin
// @Param request body AuthorInput true "Author"
// @Success 201 {object} httpx.SuccessResponse
// @Router /v1/admin/authors [post]
func (h *HTTPHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	handleCreate(h, w, r, h.service.CreateAuthor)
}

// UpdateAuthor handles PATCH /v1/admin/authors/{id}
// @Summary Update author profile
// @Tags admin
// @Param id path string true "Author ID"
// @Param request body AuthorPatch true "Changed fields"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/admin/authors/{id} [patch]
func (h *HTTPHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h, w, r, h.service.UpdateAuthor)
}

// DeleteAuthor handles DELETE /v1/admin/authors/{id}
// @Summary Delete author profile
// @Tags admin
// @Param id path string true "Author ID"
// @Success 204 "No Content"
// @Router /v1/admin/authors/{id} [delete]
func (h *HTTPHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	handleDelete(h, w, r, h.service.DeleteAuthor)
}

// ListLanguages handles GET /v1/languages
// @Summary List languages
// @Tags taxonomy
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/languages [get]
func (h *HTTPHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	writeList(h, w, r, h.service.Languages)
}

// CreateLanguage handles POST /v1/admin/languages
// @Summary Create language
// @Tags admin
// @Param request body LanguageInput true "Language"
// @Success 201 {object} httpx.SuccessResponse
// @Router /v1/admin/languages [post]
func (h *HTTPHandler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	handleCreate(h, w, r, h.service.CreateLanguage)
}

// UpdateLanguage handles PATCH /v1/admin/languages/{id}
// @Summary Update language
// @Tags admin
// @Param id path string true "Language ID"
// @Param request body LanguagePatch true "Changed fields"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/admin/languages/{id} [patch]
func (h *HTTPHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h, w, r, h.service.UpdateLanguage)
}

// DeleteLanguage handles DELETE /v1/admin/languages/{id}
// @Summary Delete language
// @Tags admin
// @Param id path string true "Language ID"
// @Success 204 "No Content"
// @Router /v1/admin/languages/{id} [delete]
func (h *HTTPHandler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	handleDelete(h, w, r, h.service.DeleteLanguage)
}

func writeList[T any](h *HTTPHandler, w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error)) {
	entries, err := list(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, entries, map[string]any{"total": len(entries)})
}

func handleCreate[In, T any](h *HTTPHandler, w http.ResponseWriter, r *http.Request, create func(context.Context, In) (T, error)) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var in In
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	e, err := create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, e)
}

func handleUpdate[In, T any](h *HTTPHandler, w http.ResponseWriter, r *http.Request, update func(context.Context, string, In) (T, error)) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var in In
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	e, err := update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, e, nil)
}

func handleDelete(h *HTTPHandler, w http.ResponseWriter, r *http.Request, remove func(context.Context, string) error) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}
	if err := remove(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Entry not found", nil)
	case errors.Is(err, ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_NAME", "An entry with this name already exists",
			[]httpx.ErrorDetail{{Field: "name", Message: "name must be unique"}})
	case errors.Is(err, ErrEmptyName):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "name", Message: "name is required"}})
	default:
		h.log.Error("taxonomy request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.InternalError(w, r)
	}
}
