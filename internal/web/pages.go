package web

import "net/http"

// HomePage handles GET /auth/home.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "home.html", PageData{
		Title:   "Home",
		Session: GetSession(r.Context()),
	})
}

type settingsPageData struct {
	PageData
	GroupID string
}

// SettingsPage handles GET /auth/settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "settings.html", settingsPageData{
		PageData: PageData{Title: "Settings", Session: GetSession(r.Context())},
		GroupID:  s.GroupID,
	})
}
