package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/scriptlab/internal/auth"
	"github.com/sakif/scriptlab/internal/model"
	"github.com/sakif/scriptlab/internal/service"
)

// tokenCookieMaxAge matches the 24h token lifetime so the cookie and the
// JWT inside it expire together.
const tokenCookieMaxAge = 24 * 60 * 60

// AuthHandler handles registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// credentialsRequest is the JSON body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse returns the user plus the raw token for clients that
// can't use cookies (the CLI sends it as a Bearer header instead).
type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// setTokenCookie stores the JWT in an HttpOnly cookie.
//
//   - HttpOnly: JavaScript can't read it, so XSS can't steal it
//   - SameSite=Lax: not sent on cross-site POSTs (CSRF protection)
func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   tokenCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleRegister creates an account and signs the user in.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"username": "alice", "password": "hunter2hunter2"}
//
// A taken username is a 409.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{User: result.User, Token: result.Token})
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{User: result.User, Token: result.Token})
}

// HandleLogout clears the token cookie.
//
// HTTP: POST /api/auth/logout
//
// JWTs are stateless so there is nothing to revoke server-side; logout
// just makes the browser forget the token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
