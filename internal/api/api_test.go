package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"groupadmin/internal/db"
	"groupadmin/internal/model"
	"groupadmin/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin account.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateAccount(ctx, database, "admin", "admin", string(hash))

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSessionAndLogout(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("GET", server.URL+"/auth/session", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from session check, got %d", resp.StatusCode)
	}
	var sess map[string]string
	json.NewDecoder(resp.Body).Decode(&sess)
	resp.Body.Close()
	if sess["username"] != "admin" {
		t.Errorf("unexpected session payload: %v", sess)
	}

	// Sign out, then the token must stop working.
	req, _ = authRequest("POST", server.URL+"/auth/logout", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/auth/session", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUsersAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create user.
	req, _ := authRequest("POST", server.URL+"/users", token, model.User{
		UserID: "u1", Username: "alice", Email: "alice@example.com",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// List users.
	req, _ = authRequest("GET", server.URL+"/users", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var list struct {
		Items []model.User `json:"Items"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Items) != 1 || list.Items[0].UserID != "u1" {
		t.Errorf("unexpected users list: %+v", list.Items)
	}

	// Partial update.
	req, _ = authRequest("PATCH", server.URL+"/users/u1", token, map[string]string{"email": "new@example.com"})
	resp, _ = http.DefaultClient.Do(req)
	var updated model.User
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Email != "new@example.com" || updated.Username != "alice" {
		t.Errorf("unexpected updated user: %+v", updated)
	}

	// Delete.
	req, _ = authRequest("DELETE", server.URL+"/users/u1", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Deleting again is a 404 with a detail message.
	req, _ = authRequest("DELETE", server.URL+"/users/u1", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	var errBody map[string]string
	json.NewDecoder(resp.Body).Decode(&errBody)
	resp.Body.Close()
	if errBody["detail"] != "User not found" {
		t.Errorf("unexpected error detail: %v", errBody)
	}
}

func TestCreateUserValidationErrors(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/users", token, model.User{Email: "not-an-email"})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var errBody struct {
		Detail []struct {
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	json.NewDecoder(resp.Body).Decode(&errBody)
	resp.Body.Close()
	if len(errBody.Detail) != 3 {
		t.Errorf("expected 3 field errors, got %+v", errBody.Detail)
	}
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	for i := 1; i <= 4; i++ {
		req, _ := authRequest("POST", server.URL+"/items", token, model.Item{
			ID: fmt.Sprintf("i%d", i), Name: fmt.Sprintf("Item %d", i), Price: float64(i), Category: "misc",
		})
		resp, _ := http.DefaultClient.Do(req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 creating item, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Paged listing.
	req, _ := authRequest("GET", server.URL+"/items?limit=3", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	var page struct {
		Items            []model.Item `json:"items"`
		LastEvaluatedKey string       `json:"last_evaluated_key"`
	}
	json.NewDecoder(resp.Body).Decode(&page)
	resp.Body.Close()
	if len(page.Items) != 3 || page.LastEvaluatedKey == "" {
		t.Fatalf("expected 3 items and a continuation key, got %d items key %q", len(page.Items), page.LastEvaluatedKey)
	}

	req, _ = authRequest("GET", server.URL+"/items?limit=3&lastKey="+url.QueryEscape(page.LastEvaluatedKey), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var page2 struct {
		Items            []model.Item `json:"items"`
		LastEvaluatedKey string       `json:"last_evaluated_key"`
	}
	json.NewDecoder(resp.Body).Decode(&page2)
	resp.Body.Close()
	if len(page2.Items) != 1 || page2.LastEvaluatedKey != "" {
		t.Errorf("expected final page of 1 with no key, got %d items key %q", len(page2.Items), page2.LastEvaluatedKey)
	}

	// Continuation scans in ID order; combining it with sort_by is an
	// explicit error rather than a silently unsorted page.
	req, _ = authRequest("GET", server.URL+"/items?sort_by=price&lastKey="+url.QueryEscape(page.LastEvaluatedKey), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var errResp struct {
		Detail string `json:"detail"`
	}
	json.NewDecoder(resp.Body).Decode(&errResp)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for sort_by with lastKey, got %d", resp.StatusCode)
	}
	if errResp.Detail != "sort_by cannot be combined with lastKey" {
		t.Errorf("unexpected detail %q", errResp.Detail)
	}
}

func TestLogsAPIPaginationAndFilters(t *testing.T) {
	seeded := db.NewTestDB(t)
	router := NewRouter(seeded, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateAccount(ctx, seeded, "admin", "admin", string(hash))

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, _ := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	resp.Body.Close()
	token := loginResp["token"]

	for i := 1; i <= 5; i++ {
		store.InsertLog(ctx, seeded, model.LogEntry{
			GroupID:   "group1",
			CreatedAt: fmt.Sprintf("2024-01-0%dT00:00:00Z", i),
			UserID:    "u1",
			Username:  "alice",
			Type:      model.LogTypeInfo,
			Message:   fmt.Sprintf("event %d", i),
		})
	}

	// First page.
	req, _ := authRequest("GET", server.URL+"/groups/group1/logs?limit=3", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var page struct {
		Items            []model.LogEntry `json:"Items"`
		LastEvaluatedKey json.RawMessage  `json:"LastEvaluatedKey"`
	}
	json.NewDecoder(resp.Body).Decode(&page)
	resp.Body.Close()
	if len(page.Items) != 3 || page.LastEvaluatedKey == nil {
		t.Fatalf("expected 3 entries and a key, got %d entries", len(page.Items))
	}

	// Second page via startkey.
	req, _ = authRequest("GET", server.URL+"/groups/group1/logs?limit=3&startkey="+url.QueryEscape(string(page.LastEvaluatedKey)), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var page2 struct {
		Items            []model.LogEntry `json:"Items"`
		LastEvaluatedKey json.RawMessage  `json:"LastEvaluatedKey"`
	}
	json.NewDecoder(resp.Body).Decode(&page2)
	resp.Body.Close()
	if len(page2.Items) != 2 || page2.LastEvaluatedKey != nil {
		t.Errorf("expected final 2 entries with no key, got %d entries key=%s", len(page2.Items), page2.LastEvaluatedKey)
	}

	// Bad startkey.
	req, _ = authRequest("GET", server.URL+"/groups/group1/logs?startkey=notjson", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad startkey, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// By-user filter with date range.
	req, _ = authRequest("GET", server.URL+"/groups/group1/logs?userid=u1&begin=2024-01-02T00:00:00Z&end=2024-01-04T00:00:00Z", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&page)
	resp.Body.Close()
	if len(page.Items) != 3 {
		t.Errorf("expected 3 entries in range, got %d", len(page.Items))
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	for _, path := range []string{"/users", "/items", "/groups/group1/logs"} {
		resp, _ := http.Get(server.URL + path)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 for unauthenticated %s, got %d", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}
