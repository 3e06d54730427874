package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"groupadmin/internal/model"
	"groupadmin/internal/session"
)

func TestBearerHeaderAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"Items": []model.User{}})
	}))
	t.Cleanup(server.Close)

	sess := session.NewStore()
	client := NewClient(server.URL, sess)
	ctx := context.Background()

	// No credential: no header.
	if _, err := client.ListUsers(ctx); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}

	// With credential: bearer header.
	sess.Set("tok-123")
	if _, err := client.ListUsers(ctx); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected 'Bearer tok-123', got %q", gotAuth)
	}
}

func TestErrorDetailString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "User not found"})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, session.NewStore())
	err := client.DeleteUser(context.Background(), "u1")

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "User not found" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if msgs := apiErr.Messages(); len(msgs) != 1 || msgs[0] != "User not found" {
		t.Errorf("unexpected messages: %v", msgs)
	}
}

func TestErrorDetailFieldList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"msg":"userid is required"},{"msg":"email is invalid"}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, session.NewStore())
	err := client.CreateUser(context.Background(), model.User{})

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if len(apiErr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(apiErr.Fields))
	}
	if apiErr.Fields[0].Msg != "userid is required" {
		t.Errorf("unexpected first field error: %q", apiErr.Fields[0].Msg)
	}
}

func TestErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, session.NewStore())
	err := client.DeleteItem(context.Background(), "abc")

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	msgs := apiErr.Messages()
	if len(msgs) != 1 || msgs[0] != "The request failed. Please try again." {
		t.Errorf("expected generic fallback, got %v", msgs)
	}
}

func TestLogsQueryByUserOmitsType(t *testing.T) {
	var got map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups/group1/logs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		got = r.URL.Query()
		json.NewEncoder(w).Encode(LogsPage{})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, session.NewStore())
	_, err := client.ListLogs(context.Background(), "group1", LogsQuery{
		Begin:  "2024-01-01T00:00:00Z",
		End:    "2024-01-31T23:59:59Z",
		Limit:  3,
		UserID: "u123",
	})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}

	if v := got["userid"]; len(v) != 1 || v[0] != "u123" {
		t.Errorf("expected userid=u123, got %v", v)
	}
	if v := got["begin"]; len(v) != 1 || v[0] != "2024-01-01T00:00:00Z" {
		t.Errorf("expected begin bound, got %v", v)
	}
	if v := got["end"]; len(v) != 1 || v[0] != "2024-01-31T23:59:59Z" {
		t.Errorf("expected end bound, got %v", v)
	}
	if _, present := got["type"]; present {
		t.Error("type must be absent when filtering by user")
	}
}

func TestPartialUpdateSendsOnlyChangedFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, session.NewStore())
	email := "new@example.com"
	if err := client.UpdateUser(context.Background(), "u1", model.UserPatch{Email: &email}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if len(body) != 1 {
		t.Errorf("expected only the changed field, got %v", body)
	}
	if body["email"] != "new@example.com" {
		t.Errorf("expected email field, got %v", body)
	}
}
