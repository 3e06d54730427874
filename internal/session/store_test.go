package session

import "testing"

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()

	if _, ok := s.Token(); ok {
		t.Error("expected empty store to report no token")
	}

	s.Set("tok-1")
	token, ok := s.Token()
	if !ok || token != "tok-1" {
		t.Errorf("expected tok-1, got %q (ok=%v)", token, ok)
	}

	s.Set("tok-2")
	token, _ = s.Token()
	if token != "tok-2" {
		t.Errorf("expected replacement token tok-2, got %q", token)
	}

	s.Clear()
	if _, ok := s.Token(); ok {
		t.Error("expected no token after Clear")
	}
}
