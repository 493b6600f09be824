package storage

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nurcatalog/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A minimal valid PNG header is enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/admin/uploads", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r.WithContext(httpx.ContextWithPrincipal(r.Context(), httpx.Principal{UserID: "user-1", Username: "admin", Role: "admin"}))
}

func TestHTTPHandler_Upload(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir, "")
	require.NoError(t, err)
	handler := NewHTTPHandler(local, 1024, nil)

	t.Run("unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Upload(w, httptest.NewRequest(http.MethodPost, "/v1/admin/uploads", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("stores image", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Upload(w, multipartRequest(t, "file", "cover", pngBytes))

		require.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			Data uploadResp `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "image/png", body.Data.ContentType)
		assert.Regexp(t, `^/media/covers/[0-9a-f]{12}_\d+\.png$`, body.Data.URL)

		_, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(body.Data.URL, MediaPrefix)))
		assert.NoError(t, err)
	})

	t.Run("rejects non image", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Upload(w, multipartRequest(t, "file", "notes.txt", []byte("plain text, not a picture")))
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("rejects oversize", func(t *testing.T) {
		w := httptest.NewRecorder()
		big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 2048)...)
		handler.Upload(w, multipartRequest(t, "file", "big.png", big))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Upload(w, multipartRequest(t, "image", "cover.png", pngBytes))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "file is required")
	})
}

func TestHTTPHandler_UploadNotConfigured(t *testing.T) {
	handler := NewHTTPHandler(None{}, 0, nil)
	w := httptest.NewRecorder()
	handler.Upload(w, multipartRequest(t, "file", "cover.png", pngBytes))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORAGE_UNAVAILABLE")
}
