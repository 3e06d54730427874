package web

import (
	"context"
	"net/http"
	"strings"

	"groupadmin/internal/model"
)

const usersResource = "users"

type usersPageData struct {
	PageData
	Users   []model.User
	NewUser model.User
	Editing *model.User
}

func (s *Server) fetchUsers(ctx context.Context) ([]model.User, error) {
	data, err := s.Cache.Get(ctx, usersResource, nil, func(ctx context.Context) (any, error) {
		return s.API.ListUsers(ctx)
	})
	if err != nil {
		return nil, err
	}
	return data.([]model.User), nil
}

// staleUsers returns the last-known user list for rendering alongside an
// error banner after a failed fetch or mutation.
func (s *Server) staleUsers() []model.User {
	data, ok := s.Cache.Stale(usersResource, nil)
	if !ok {
		return nil
	}
	return data.([]model.User)
}

// UsersPage handles GET /auth/users. The edit query parameter opens the
// edit dialog for one user, prefilled from the listed copy.
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	data := usersPageData{
		PageData: PageData{Title: "Users", Session: GetSession(r.Context())},
	}

	users, err := s.fetchUsers(r.Context())
	if err != nil {
		msgs, unauthorized := resolveError(err)
		if unauthorized {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		data.Errors = msgs
		data.Users = s.staleUsers()
		s.Templates.Render(w, "users.html", data)
		return
	}
	data.Users = users

	if editID := r.URL.Query().Get("edit"); editID != "" {
		for i := range users {
			if users[i].UserID == editID {
				data.Editing = &users[i]
				break
			}
		}
	}

	s.Templates.Render(w, "users.html", data)
}

// CreateUser handles POST /auth/users/create. On failure the submitted
// values are kept in the form; on success the listing is invalidated and
// the form resets.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	user := model.User{
		UserID:   strings.TrimSpace(r.FormValue("userid")),
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}

	err := s.Cache.Do(r.Context(), func(ctx context.Context) error {
		return s.API.CreateUser(ctx, user)
	}, usersResource)
	if err != nil {
		msgs, unauthorized := resolveError(err)
		if unauthorized {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.Templates.Render(w, "users.html", usersPageData{
			PageData: PageData{Title: "Users", Session: GetSession(r.Context()), Errors: msgs},
			Users:    s.staleUsers(),
			NewUser:  user,
		})
		return
	}

	http.Redirect(w, r, "/auth/users", http.StatusSeeOther)
}

// UpdateUser handles POST /auth/users/{userid}/edit. Only fields that
// differ from the listed copy are sent.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	userid := r.PathValue("userid")
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))

	var patch model.UserPatch
	if username != r.FormValue("orig_username") {
		patch.Username = &username
	}
	if email != r.FormValue("orig_email") {
		patch.Email = &email
	}

	if patch.Username == nil && patch.Email == nil {
		http.Redirect(w, r, "/auth/users", http.StatusSeeOther)
		return
	}

	err := s.Cache.Do(r.Context(), func(ctx context.Context) error {
		return s.API.UpdateUser(ctx, userid, patch)
	}, usersResource)
	if err != nil {
		msgs, unauthorized := resolveError(err)
		if unauthorized {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		// Reopen the dialog with the submitted values so the edit is not
		// lost.
		editing := model.User{UserID: userid, Username: username, Email: email}
		s.Templates.Render(w, "users.html", usersPageData{
			PageData: PageData{Title: "Users", Session: GetSession(r.Context()), Errors: msgs},
			Users:    s.staleUsers(),
			Editing:  &editing,
		})
		return
	}

	http.Redirect(w, r, "/auth/users", http.StatusSeeOther)
}

// DeleteUser handles POST /auth/users/{userid}/delete. A failed delete
// leaves the listing unchanged and shows the API's message.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userid := r.PathValue("userid")

	err := s.Cache.Do(r.Context(), func(ctx context.Context) error {
		return s.API.DeleteUser(ctx, userid)
	}, usersResource)
	if err != nil {
		msgs, unauthorized := resolveError(err)
		if unauthorized {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.Templates.Render(w, "users.html", usersPageData{
			PageData: PageData{Title: "Users", Session: GetSession(r.Context()), Errors: msgs},
			Users:    s.staleUsers(),
		})
		return
	}

	http.Redirect(w, r, "/auth/users", http.StatusSeeOther)
}
