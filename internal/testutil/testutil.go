// Package testutil holds fixtures and request helpers shared by HTTP tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"nurcatalog/internal/book"
	"nurcatalog/internal/httpx"
	"nurcatalog/internal/platform/crypto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestAdmin is the principal carried by session tokens minted here.
var TestAdmin = httpx.Principal{
	UserID:   "test-admin-id-456",
	Username: "adminuser",
	Role:     "admin",
}

// TestBook returns a fresh, fully populated catalog entry.
func TestBook() book.Book {
	inStock := true
	return book.Book{
		ID:                "test-book-id-789",
		Title:             "The Muqaddimah",
		Author:            "Ibn Khaldun",
		Category:          "History",
		Year:              1377,
		Description:       "An introduction to history and the cycles of civilisation.",
		HistoricalContext: book.DefaultHistoricalContext,
		Themes:            []string{"Sociology", "Historiography"},
		CoverImage:        book.DefaultCoverImage,
		ISBN:              "978-0691166285",
		Pages:             512,
		Language:          "Arabic/English",
		Publisher:         "Princeton University Press",
		Price:             "24.95",
		InStock:           &inStock,
		CreatedAt:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// SessionToken mints a valid session token for p.
func SessionToken(secret string, p httpx.Principal) string {
	token, _ := crypto.GenerateToken(secret, p.UserID, p.Username, p.Role, time.Hour)
	return token.Value
}

// ExpiredSessionToken mints a correctly signed token that expired an hour ago.
func ExpiredSessionToken(secret string, p httpx.Principal) string {
	c := crypto.Claims{
		Sub:      p.UserID,
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request with an optional JSON body.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithSession attaches token as the session cookie.
func NewRequestWithSession(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: token})
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}
