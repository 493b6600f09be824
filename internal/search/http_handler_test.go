package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nurcatalog/internal/book"
	"nurcatalog/internal/platform/gemini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticCatalog struct {
	books []book.Book
	err   error
}

func (c staticCatalog) List(ctx context.Context) ([]book.Book, error) {
	return c.books, c.err
}

type searchEnvelope struct {
	Success bool           `json:"success"`
	Data    Response       `json:"data"`
	Meta    map[string]any `json:"meta"`
}

func TestHTTPHandler_Search(t *testing.T) {
	books := seedCatalog(t)

	t.Run("ai matches combine with filters", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(&gemini.Response{
			Text: `{"bookIds":["1","4","2"],"explanation":"Journeys."}`,
		}, nil)
		handler := NewHTTPHandler(NewService(gen, false, nil), staticCatalog{books: books})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(`{"query":"journeys","filters":{"category":"Literature"},"sort":"Oldest"}`))

		handler.Search(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body searchEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, []string{"4", "1"}, bookIDs(body.Data.Books))
		assert.Equal(t, "Journeys.", body.Data.Explanation)
		assert.EqualValues(t, 2, body.Meta["filtered"])
	})

	t.Run("empty query returns the catalog", func(t *testing.T) {
		gen := new(mockGenerator)
		handler := NewHTTPHandler(NewService(gen, false, nil), staticCatalog{books: books})

		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(`{"query":""}`)))

		require.Equal(t, http.StatusOK, w.Code)
		var body searchEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Len(t, body.Data.Books, 6)
		assert.EqualValues(t, 6, body.Meta["filtered"])
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fallback is flagged", func(t *testing.T) {
		handler := NewHTTPHandler(NewService(nil, false, nil), staticCatalog{books: books})

		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(`{"query":"khaldun"}`)))

		var body searchEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, body.Data.Fallback)
		assert.Equal(t, []string{"2"}, bookIDs(body.Data.Books))
	})

	t.Run("bad body", func(t *testing.T) {
		handler := NewHTTPHandler(NewService(nil, false, nil), staticCatalog{books: books})
		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(`[`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("catalog error", func(t *testing.T) {
		handler := NewHTTPHandler(NewService(nil, false, nil), staticCatalog{err: errors.New("db down")})
		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(`{"query":"x"}`)))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
