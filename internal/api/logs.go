package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"groupadmin/internal/model"
	"groupadmin/internal/store"
)

// LogsHandler implements the read-only group log endpoints.
type LogsHandler struct {
	DB *sql.DB
}

type logsResponse struct {
	Items            []model.LogEntry `json:"Items"`
	LastEvaluatedKey *store.LogKey    `json:"LastEvaluatedKey,omitempty"`
}

// List handles GET /groups/{groupid}/logs with begin, end, limit, startkey,
// userid and type parameters. startkey is the JSON-encoded continuation key
// from the previous page's LastEvaluatedKey.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	groupid := r.PathValue("groupid")
	q := r.URL.Query()

	filter := store.LogsFilter{
		Begin:  q.Get("begin"),
		End:    q.Get("end"),
		UserID: q.Get("userid"),
		Type:   q.Get("type"),
		Limit:  25,
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			detailError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = n
	}

	if filter.Type != "" && !model.ValidLogType(filter.Type) {
		detailError(w, http.StatusBadRequest, "Invalid log type")
		return
	}

	if raw := q.Get("startkey"); raw != "" {
		var key store.LogKey
		if err := json.Unmarshal([]byte(raw), &key); err != nil || key.CreatedAt == "" {
			detailError(w, http.StatusBadRequest, "Invalid startkey format")
			return
		}
		filter.After = &key
	}

	entries, next, err := store.ListLogs(r.Context(), h.DB, groupid, filter)
	if err != nil {
		slog.Error("failed to list logs", "groupid", groupid, "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to list logs")
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}

	slog.Info("logs retrieved", "groupid", groupid, "count", len(entries))
	jsonResponse(w, http.StatusOK, logsResponse{Items: entries, LastEvaluatedKey: next})
}

type groupUsersResponse struct {
	Items []model.GroupUser `json:"Items"`
}

// Users handles GET /groups/{groupid}/users.
func (h *LogsHandler) Users(w http.ResponseWriter, r *http.Request) {
	groupid := r.PathValue("groupid")

	users, err := store.ListGroupUsers(r.Context(), h.DB, groupid)
	if err != nil {
		slog.Error("failed to list group users", "groupid", groupid, "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to list group users")
		return
	}
	if users == nil {
		users = []model.GroupUser{}
	}
	jsonResponse(w, http.StatusOK, groupUsersResponse{Items: users})
}
