package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"groupadmin/internal/apiclient"
	"groupadmin/internal/cache"
	"groupadmin/internal/idp"
	"groupadmin/internal/session"
	webembed "groupadmin/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"logTime": func(iso string) string {
			t, err := time.Parse(time.RFC3339, iso)
			if err != nil {
				return iso
			}
			return t.Format("2006-01-02 (Mon) 15:04:05")
		},
		"price": func(p float64) string {
			return fmt.Sprintf("%.2f", p)
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"confirm_session.html",
		"home.html",
		"users.html",
		"items.html",
		"logs.html",
		"settings.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates. Errors holds the
// dismissible banner messages; Session is set on authenticated pages.
type PageData struct {
	Title   string
	Session *idp.Session
	Errors  []string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Templates *Templates
	Cache     *cache.Cache
	API       *apiclient.Client
	IdP       *idp.Client
	Sessions  *session.Store
	GroupID   string
}
