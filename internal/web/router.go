package web

import (
	"net/http"

	webembed "groupadmin/web"
)

// NewRouter wires the console routes. Pages under /auth require a
// confirmed session; the demo pages and the login flow are public.
func (s *Server) NewRouter() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.Root)

	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.Login)
	mux.HandleFunc("GET /logout", s.Logout)

	mux.HandleFunc("GET /confirm-session", s.ConfirmSessionPage)
	mux.HandleFunc("POST /confirm-session", s.ConfirmSession)
	mux.HandleFunc("GET /demo/confirm-session", s.ConfirmSessionPage)
	mux.HandleFunc("POST /demo/confirm-session", s.ConfirmSession)

	mux.HandleFunc("GET /demo", s.ItemsPage)
	mux.HandleFunc("POST /demo/items/create", s.CreateItem)
	mux.HandleFunc("POST /demo/items/{id}/edit", s.UpdateItem)
	mux.HandleFunc("POST /demo/items/{id}/delete", s.DeleteItem)

	guard := s.RequireSession

	mux.Handle("GET /auth/home", guard(http.HandlerFunc(s.HomePage)))
	mux.Handle("GET /auth/settings", guard(http.HandlerFunc(s.SettingsPage)))

	mux.Handle("GET /auth/users", guard(http.HandlerFunc(s.UsersPage)))
	mux.Handle("POST /auth/users/create", guard(http.HandlerFunc(s.CreateUser)))
	mux.Handle("POST /auth/users/{userid}/edit", guard(http.HandlerFunc(s.UpdateUser)))
	mux.Handle("POST /auth/users/{userid}/delete", guard(http.HandlerFunc(s.DeleteUser)))

	mux.Handle("GET /auth/logs", guard(http.HandlerFunc(s.LogsPage)))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	return mux
}

// Root routes the bare path: a stored credential goes through session
// confirmation, everyone else to the login page.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Sessions.Token(); ok {
		http.Redirect(w, r, "/confirm-session", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
