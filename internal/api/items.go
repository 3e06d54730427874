package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"groupadmin/internal/model"
	"groupadmin/internal/store"
)

// ItemsHandler implements the item management endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type itemsResponse struct {
	Items            []model.Item `json:"items"`
	LastEvaluatedKey string       `json:"last_evaluated_key,omitempty"`
}

// List handles GET /items with category, sort_by, limit and lastKey
// parameters. Continuation scans in ID order, so sort_by cannot be
// combined with lastKey.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 25
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			detailError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	if q.Get("sort_by") != "" && q.Get("lastKey") != "" {
		detailError(w, http.StatusBadRequest, "sort_by cannot be combined with lastKey")
		return
	}

	items, lastKey, err := store.ListItems(r.Context(), h.DB, q.Get("category"), q.Get("sort_by"), limit, q.Get("lastKey"))
	if err != nil {
		slog.Error("failed to list items", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, itemsResponse{Items: items, LastEvaluatedKey: lastKey})
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if err := decodeJSON(r, &item); err != nil {
		detailError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var msgs []string
	if item.ID == "" {
		msgs = append(msgs, "id is required")
	}
	if item.Name == "" {
		msgs = append(msgs, "name is required")
	}
	if item.Price < 0 {
		msgs = append(msgs, "price must not be negative")
	}
	if item.Category == "" {
		msgs = append(msgs, "category is required")
	}
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, item.ID)
	if err != nil {
		slog.Error("failed to check item", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}
	if existing != nil {
		detailError(w, http.StatusConflict, "Item already exists")
		return
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	slog.Info("item created", "id", created.ID)
	jsonResponse(w, http.StatusOK, created)
}

// Update handles PATCH /items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch model.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		detailError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var msgs []string
	if patch.Name != nil && *patch.Name == "" {
		msgs = append(msgs, "name must not be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		msgs = append(msgs, "price must not be negative")
	}
	if len(msgs) > 0 {
		validationError(w, msgs)
		return
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, id, patch)
	if err != nil {
		slog.Error("failed to update item", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}
	if updated == nil {
		detailError(w, http.StatusNotFound, "Item not found")
		return
	}

	slog.Info("item updated", "id", id)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to delete item", "error", err)
		detailError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if !found {
		detailError(w, http.StatusNotFound, "Item not found")
		return
	}

	slog.Info("item deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}
