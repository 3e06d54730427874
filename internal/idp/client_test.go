package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)

		if creds.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok123"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	token, err := client.SignIn(context.Background(), "admin", "correct")
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}
	if token != "tok123" {
		t.Errorf("token = %q, want tok123", token)
	}

	if _, err := client.SignIn(context.Background(), "admin", "wrong"); err == nil {
		t.Error("sign-in with bad password succeeded")
	}
}

func TestFetchSessionStatusMapping(t *testing.T) {
	var status int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q", got)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(Session{UserID: "u1", Username: "alice"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	status = http.StatusOK
	sess, err := client.FetchSession(ctx, "tok123")
	if err != nil {
		t.Fatalf("fetch session: %v", err)
	}
	if sess.UserID != "u1" || sess.Username != "alice" {
		t.Errorf("session = %+v", sess)
	}

	// A rejected credential is ErrNoSession.
	for _, status = range []int{http.StatusUnauthorized, http.StatusForbidden} {
		if _, err := client.FetchSession(ctx, "tok123"); !errors.Is(err, ErrNoSession) {
			t.Errorf("status %d: err = %v, want ErrNoSession", status, err)
		}
	}

	// A failed check is a distinct error, not a missing session.
	status = http.StatusInternalServerError
	if _, err := client.FetchSession(ctx, "tok123"); err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("status 500: err = %v, want a non-ErrNoSession error", err)
	}
}

func TestSignOut(t *testing.T) {
	var status int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/logout" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	for _, status = range []int{http.StatusOK, http.StatusNoContent} {
		if err := client.SignOut(ctx, "tok123"); err != nil {
			t.Errorf("status %d: %v", status, err)
		}
	}

	status = http.StatusInternalServerError
	if err := client.SignOut(ctx, "tok123"); err == nil {
		t.Error("sign-out with server error succeeded")
	}
}
