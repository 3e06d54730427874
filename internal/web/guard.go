package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"groupadmin/internal/apiclient"
	"groupadmin/internal/idp"
)

// Decision is the outcome of a session check: either the request may
// proceed, or it must be redirected.
type Decision struct {
	Allow      bool
	RedirectTo string
	Session    *idp.Session
}

// CheckSession asks the identity provider whether the stored credential
// still names a live session. No credential, a rejected credential and a
// failed check all resolve to a redirect to the login page.
func (s *Server) CheckSession(ctx context.Context) Decision {
	token, ok := s.Sessions.Token()
	if !ok {
		return Decision{RedirectTo: "/login"}
	}

	sess, err := s.IdP.FetchSession(ctx, token)
	if err != nil {
		if !errors.Is(err, idp.ErrNoSession) {
			slog.Error("session check failed", "error", err)
		}
		return Decision{RedirectTo: "/login"}
	}
	return Decision{Allow: true, Session: sess}
}

type contextKey string

const sessionContextKey contextKey = "session"

// GetSession returns the confirmed session stored by RequireSession, or nil.
func GetSession(ctx context.Context) *idp.Session {
	sess, _ := ctx.Value(sessionContextKey).(*idp.Session)
	return sess
}

// RequireSession guards a page: the wrapped handler only runs once the
// provider has confirmed the session, and can read it with GetSession.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := s.CheckSession(r.Context())
		if !decision.Allow {
			http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, decision.Session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveError turns a failed API call into banner messages. A true
// authentication failure escalates: the handler should redirect to the
// login page instead of rendering.
func resolveError(err error) (msgs []string, unauthorized bool) {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() {
			return nil, true
		}
		return apiErr.Messages(), false
	}
	slog.Error("request failed", "error", err)
	return []string{"The request failed. Please try again."}, false
}
