package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeOmitsEmptyMeta(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	Unauthorized(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"Unauthorized"}}`, w.Body.String())

	w = httptest.NewRecorder()
	JSONCreated(w, r, map[string]string{"id": "1"})
	assert.JSONEq(t, `{"success":true,"data":{"id":"1"}}`, w.Body.String())

	w = httptest.NewRecorder()
	JSONSuccess(w, r, []string{}, nil)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestEnvelopeMergesRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	w := httptest.NewRecorder()
	JSONSuccess(w, r, "ok", map[string]any{"total": 2})
	assert.JSONEq(t, `{"success":true,"data":"ok","meta":{"total":2,"request_id":"req-1"}}`, w.Body.String())

	w = httptest.NewRecorder()
	JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Book not found"},"meta":{"request_id":"req-1"}}`, w.Body.String())
}
