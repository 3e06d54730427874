package web

import (
	"log/slog"
	"net/http"
	"strings"
)

type loginPageData struct {
	PageData
	Username string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", loginPageData{
		PageData: PageData{Title: "Sign in"},
	})
}

// Login handles POST /login: exchange the credentials with the identity
// provider and store the returned token for the rest of the process.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", loginPageData{
			PageData: PageData{Title: "Sign in", Errors: []string{"Username and password are required"}},
			Username: username,
		})
		return
	}

	token, err := s.IdP.SignIn(r.Context(), username, password)
	if err != nil {
		slog.Warn("sign-in rejected", "username", username, "error", err)
		s.Templates.Render(w, "login.html", loginPageData{
			PageData: PageData{Title: "Sign in", Errors: []string{"Sign-in failed. Check your username and password."}},
			Username: username,
		})
		return
	}

	s.Sessions.Set(token)
	slog.Info("user signed in", "username", username)
	http.Redirect(w, r, "/auth/users", http.StatusSeeOther)
}

// Logout handles GET /logout. The provider sign-out is best effort; the
// local credential is cleared regardless.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := s.Sessions.Token(); ok {
		if err := s.IdP.SignOut(r.Context(), token); err != nil {
			slog.Warn("provider sign-out failed", "error", err)
		}
	}
	s.Sessions.Clear()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type confirmPageData struct {
	PageData
	Action string
}

// ConfirmSessionPage handles GET /confirm-session and its /demo variant.
// Without a stored credential there is nothing to confirm.
func (s *Server) ConfirmSessionPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Sessions.Token(); !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	s.Templates.Render(w, "confirm_session.html", confirmPageData{
		PageData: PageData{Title: "Continue session"},
		Action:   r.URL.Path,
	})
}

// ConfirmSession handles the confirmation choice: continue with the
// stored session, or sign out and log in again. The /demo variant
// continues to the demo page instead of the console.
func (s *Server) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	if r.FormValue("choice") == "continue" {
		target := "/auth/home"
		if strings.HasPrefix(r.URL.Path, "/demo") {
			target = "/demo"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	if token, ok := s.Sessions.Token(); ok {
		if err := s.IdP.SignOut(r.Context(), token); err != nil {
			slog.Warn("provider sign-out failed", "error", err)
		}
	}
	s.Sessions.Clear()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
