package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nurcatalog/internal/httpx"
)

type HTTPHandler struct {
	service      *Service
	secureCookie bool
}

func NewHTTPHandler(service *Service, secureCookie bool) *HTTPHandler {
	return &HTTPHandler{service: service, secureCookie: secureCookie}
}

type LoginReq struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type sessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type sessionResp struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

func (h *HTTPHandler) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	c := &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	} else {
		c.Expires = expires
		c.MaxAge = int(time.Until(expires).Seconds())
	}
	http.SetCookie(w, c)
}

// Login handles POST /v1/auth/login
// @Summary Admin login
// @Description Authenticate and receive an HttpOnly session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginReq true "Credentials"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	sess, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
			return
		}
		httpx.InternalError(w, r)
		return
	}

	h.setCookie(w, sess.Token, sess.ExpiresAt)
	httpx.JSONSuccess(w, r, sessionResp{
		Authenticated: true,
		User:          &sessionUser{ID: sess.User.ID, Username: sess.User.Username, Role: sess.User.Role},
		ExpiresAt:     &sess.ExpiresAt,
	}, nil)
}

// Logout handles POST /v1/auth/logout
// @Summary Logout
// @Description Revoke the current session and clear the cookie
// @Tags auth
// @Success 204 "No Content"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := httpx.TokenFrom(r); token != "" {
		err := h.service.Logout(r.Context(), token)
		if err != nil && !errors.Is(err, ErrUnauthorized) {
			httpx.InternalError(w, r)
			return
		}
	}
	h.setCookie(w, "", time.Time{})
	httpx.JSONNoContent(w)
}

// Session handles GET /v1/auth/session
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/auth/session [get]
func (h *HTTPHandler) Session(w http.ResponseWriter, r *http.Request) {
	token := httpx.TokenFrom(r)
	if token == "" {
		httpx.JSONSuccess(w, r, sessionResp{Authenticated: false}, nil)
		return
	}

	p, err := h.service.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONSuccess(w, r, sessionResp{Authenticated: false}, nil)
			return
		}
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, sessionResp{
		Authenticated: true,
		User:          &sessionUser{ID: p.UserID, Username: p.Username, Role: p.Role},
	}, nil)
}
