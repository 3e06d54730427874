package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"groupadmin/internal/model"
	"groupadmin/internal/store"
)

// UsersHandler implements the user management endpoints.
type UsersHandler struct {
	DB *sql.DB
}

type usersResponse struct {
	Items []model.User `json:"Items"`
}

// List handles GET /users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, usersResponse{Items: users})
}

// Create handles POST /users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := decodeJSON(r, &user); err != nil {
		detailError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msgs := validateUser(user); len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	existing, err := store.GetUser(r.Context(), h.DB, user.UserID)
	if err != nil {
		slog.Error("failed to check user", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if existing != nil {
		detailError(w, http.StatusConflict, "User already exists")
		return
	}

	created, err := store.CreateUser(r.Context(), h.DB, user)
	if err != nil {
		slog.Error("failed to create user", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "userid", created.UserID)
	jsonResponse(w, http.StatusOK, created)
}

// Update handles PATCH /users/{userid}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	userid := r.PathValue("userid")

	var patch model.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		detailError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var msgs []string
	if patch.Username != nil && *patch.Username == "" {
		msgs = append(msgs, "username must not be empty")
	}
	if patch.Email != nil && !strings.Contains(*patch.Email, "@") {
		msgs = append(msgs, "email is invalid")
	}
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	updated, err := store.UpdateUser(r.Context(), h.DB, userid, patch)
	if err != nil {
		slog.Error("failed to update user", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if updated == nil {
		detailError(w, http.StatusNotFound, "User not found")
		return
	}

	slog.Info("user updated", "userid", userid)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /users/{userid}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userid := r.PathValue("userid")

	found, err := store.DeleteUser(r.Context(), h.DB, userid)
	if err != nil {
		slog.Error("failed to delete user", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if !found {
		detailError(w, http.StatusNotFound, "User not found")
		return
	}

	slog.Info("user deleted", "userid", userid)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func validateUser(user model.User) []string {
	var msgs []string
	if user.UserID == "" {
		msgs = append(msgs, "userid is required")
	}
	if user.Username == "" {
		msgs = append(msgs, "username is required")
	}
	if user.Email == "" {
		msgs = append(msgs, "email is required")
	} else if !strings.Contains(user.Email, "@") {
		msgs = append(msgs, "email is invalid")
	}
	return msgs
}
