package ingest

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"nurcatalog/internal/book"
	"nurcatalog/internal/httpx"
)

// SecretHeader carries the shared secret for internal job endpoints.
const SecretHeader = "X-Internal-Secret"

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

func (h *HTTPHandler) authorized(r *http.Request) bool {
	got := r.Header.Get(SecretHeader)
	return h.secret != "" && subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

// Enrich handles POST /internal/jobs/enrich
// @Summary Trigger enrichment backfill
// @Description Enrich every catalog record that still holds defaults
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /internal/jobs/enrich [post]
func (h *HTTPHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	run, err := h.svc.Run(r.Context())
	if err != nil {
		if errors.Is(err, book.ErrEnrichmentUnavailable) {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "No enrichment source is configured", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INGEST_FAILED", err.Error(), nil)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}

// Runs handles GET /internal/jobs/enrich/runs
// @Summary List recent enrichment runs
// @Tags internal
// @Produce json
// @Param X-Internal-Secret header string true "Internal secret for authentication"
// @Param limit query int false "Max runs (default 20)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /internal/jobs/enrich/runs [get]
func (h *HTTPHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), limit)
	if err != nil {
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, runs, nil)
}
