package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// detailError writes an error with a single detail message, the shape the
// console's client resolves into a generic error.
func detailError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"detail": message})
}

type fieldDetail struct {
	Msg string `json:"msg"`
}

// validationError writes a 422 with a field-level message list.
func validationError(w http.ResponseWriter, msgs []string) {
	details := make([]fieldDetail, len(msgs))
	for i, m := range msgs {
		details[i] = fieldDetail{Msg: m}
	}
	jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{"detail": details})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
