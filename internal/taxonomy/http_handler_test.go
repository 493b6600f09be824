package taxonomy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nurcatalog/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUser(r *http.Request) *http.Request {
	return r.WithContext(httpx.ContextWithPrincipal(r.Context(), httpx.Principal{UserID: "user-1", Username: "admin", Role: "admin"}))
}

func TestHTTPHandler_ListCategories(t *testing.T) {
	handler := NewHTTPHandler(newSeededService(t), nil)

	w := httptest.NewRecorder()
	handler.ListCategories(w, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []Category     `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Data, 6)
	assert.Equal(t, float64(6), body.Meta["total"])
}

func TestHTTPHandler_CreateAuthor(t *testing.T) {
	handler := NewHTTPHandler(newSeededService(t), nil)

	t.Run("unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateAuthor(w, httptest.NewRequest(http.MethodPost, "/v1/admin/authors", strings.NewReader(`{"name":"Ibn Rushd"}`)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodPost, "/v1/admin/authors", strings.NewReader(`{"name":"Ibn Rushd","death_year":1198}`)))
		handler.CreateAuthor(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			Data AuthorInfo `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Ibn Rushd", body.Data.Name)
		require.NotNil(t, body.Data.DeathYear)
		assert.Equal(t, 1198, *body.Data.DeathYear)
	})

	t.Run("duplicate", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodPost, "/v1/admin/authors", strings.NewReader(`{"name":"ibn sina"}`)))
		handler.CreateAuthor(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_NAME")
	})

	t.Run("missing name", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := withUser(httptest.NewRequest(http.MethodPost, "/v1/admin/authors", strings.NewReader(`{"bio":"anonymous"}`)))
		handler.CreateAuthor(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name is required")
	})
}

func TestHTTPHandler_UpdateAndDeleteLanguage(t *testing.T) {
	handler := NewHTTPHandler(newSeededService(t), nil)

	w := httptest.NewRecorder()
	r := withUser(httptest.NewRequest(http.MethodPatch, "/v1/admin/languages/l4", strings.NewReader(`{"code":"el"}`)))
	r.SetPathValue("id", "l4")
	handler.UpdateLanguage(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"el"`)

	w = httptest.NewRecorder()
	r = withUser(httptest.NewRequest(http.MethodDelete, "/v1/admin/languages/l4", nil))
	r.SetPathValue("id", "l4")
	handler.DeleteLanguage(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r = withUser(httptest.NewRequest(http.MethodDelete, "/v1/admin/languages/l4", nil))
	r.SetPathValue("id", "l4")
	handler.DeleteLanguage(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
