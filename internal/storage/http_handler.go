package storage

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"nurcatalog/internal/httpx"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes caps a single cover upload.
const DefaultMaxUploadBytes = 5 << 20

type HTTPHandler struct {
	store    Store
	maxBytes int64
	log      *zap.Logger
}

func NewHTTPHandler(store Store, maxBytes int64, log *zap.Logger) *HTTPHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{store: store, maxBytes: maxBytes, log: log}
}

type uploadResp struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Upload handles POST /v1/admin/uploads
// @Summary Upload a cover image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Failure 415 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/admin/uploads [post]
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if httpx.UserIDFrom(r) == "" {
		httpx.Unauthorized(w, r)
		return
	}

	// Room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(w, r)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "file", Message: "file is required"}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Could not read upload", nil)
		return
	}
	if int64(len(data)) > h.maxBytes {
		h.tooLarge(w, r)
		return
	}
	if len(data) == 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "file", Message: "file is empty"}})
		return
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		httpx.JSONError(w, r, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Only image uploads are allowed", nil)
		return
	}

	name := header.Filename
	if extension(name, "") == "" {
		name += mtype.Extension()
	}
	url, err := h.store.Upload(r.Context(), name, mtype.String(), bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured", nil)
			return
		}
		h.log.Error("cover upload failed", zap.String("filename", header.Filename), zap.Error(err))
		httpx.JSONError(w, r, http.StatusBadGateway, "UPLOAD_FAILED", "Image upload failed", nil)
		return
	}

	h.log.Info("cover uploaded", zap.String("url", url), zap.Int("size", len(data)))
	httpx.JSONCreated(w, r, uploadResp{URL: url, ContentType: mtype.String(), Size: len(data)})
}

func (h *HTTPHandler) tooLarge(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Image exceeds the upload size limit", nil)
}
