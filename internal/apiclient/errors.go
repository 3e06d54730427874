package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// FieldError is one field-level validation message from the API.
type FieldError struct {
	Msg string `json:"msg"`
}

// Error is the API's error payload resolved once at the client boundary.
// Fields is non-empty for validation failures; otherwise Message carries a
// single human-readable string.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error (status %d): %d field errors", e.Status, len(e.Fields))
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Unauthorized reports whether the error is an authentication failure,
// which escalates to a redirect instead of an inline message.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Messages returns the human-readable messages to display, falling back to
// a generic one when the payload carried nothing usable.
func (e *Error) Messages() []string {
	if len(e.Fields) > 0 {
		out := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			out[i] = f.Msg
		}
		return out
	}
	if e.Message != "" {
		return []string{e.Message}
	}
	return []string{"The request failed. Please try again."}
}

// parseError resolves a non-2xx response body into an *Error. The API
// reports errors as {"detail": ...} where detail is either a string or a
// list of field-level messages.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}

	var fields []FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		apiErr.Fields = fields
	}
	return apiErr
}
