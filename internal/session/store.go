// Package session holds the process-wide authentication credential.
//
// The store is a cache of the identity provider's state, never the source
// of truth: access-control decisions re-verify against the provider. It is
// written only by the login, logout and confirm-session flows and read by
// the route guard and the API client.
package session

import "sync"

// Store holds the current bearer credential, or nothing.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Set records a new credential, replacing any previous one.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear discards the current credential.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Token returns the current credential and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}
