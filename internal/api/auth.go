package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"groupadmin/internal/auth"
	"groupadmin/internal/store"
)

// AuthHandler implements the demo identity provider endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		detailError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		detailError(w, http.StatusBadRequest, "username and password required")
		return
	}

	account, err := store.GetAccountByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		detailError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if account == nil {
		detailError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		detailError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, account.UserID, account.Username)
	if err != nil {
		detailError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("account signed in", "username", account.Username)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// Session handles GET /auth/session. Reaching it means the middleware
// accepted the token, so the session is live; it echoes who the session
// belongs to.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		detailError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{
		"userid":   claims.UserID,
		"username": claims.Username,
	})
}

// Logout handles POST /auth/logout by revoking the token's JTI.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		detailError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			slog.Error("failed to revoke token", "error", err)
			detailError(w, http.StatusInternalServerError, "failed to sign out")
			return
		}
	}

	slog.Info("account signed out", "username", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "signed out"})
}
