// Package idp is the HTTP client for the managed identity provider. The
// provider, not the local session store, is the source of truth for whether
// a credential is still live.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoSession is returned when the provider reports no live session for
// the presented credential.
var ErrNoSession = errors.New("no live session")

// Session describes a live session as confirmed by the provider.
type Session struct {
	UserID   string `json:"userid"`
	Username string `json:"username"`
}

// Client talks to the identity provider.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a provider client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string `json:"token"`
}

// SignIn exchanges credentials for a bearer token.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(signInRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("encoding sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign-in failed: status %d", resp.StatusCode)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding sign-in response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("sign-in response carried no token")
	}
	return out.Token, nil
}

// FetchSession asks the provider whether the token still names a live
// session. Returns ErrNoSession when the provider rejects the credential;
// any other error means the check itself failed.
func (c *Client) FetchSession(ctx context.Context, token string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/session", nil)
	if err != nil {
		return nil, fmt.Errorf("building session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrNoSession
	default:
		return nil, fmt.Errorf("session check failed: status %d", resp.StatusCode)
	}

	var out Session
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding session response: %w", err)
	}
	return &out, nil
}

// SignOut invalidates the token with the provider.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("building sign-out request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sign-out request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("sign-out failed: status %d", resp.StatusCode)
	}
	return nil
}
