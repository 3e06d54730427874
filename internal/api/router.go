package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the demo backend router: the identity provider
// endpoints under /auth plus the data API the console consumes.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	logsHandler := &LogsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Identity provider.
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /auth/session", authMW(http.HandlerFunc(authHandler.Session)))
	mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users.
	mux.Handle("GET /users", authMW(http.HandlerFunc(usersHandler.List)))
	mux.Handle("POST /users", authMW(http.HandlerFunc(usersHandler.Create)))
	mux.Handle("PATCH /users/{userid}", authMW(http.HandlerFunc(usersHandler.Update)))
	mux.Handle("DELETE /users/{userid}", authMW(http.HandlerFunc(usersHandler.Delete)))

	// Items.
	mux.Handle("GET /items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PATCH /items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Group logs (read-only).
	mux.Handle("GET /groups/{groupid}/logs", authMW(http.HandlerFunc(logsHandler.List)))
	mux.Handle("GET /groups/{groupid}/users", authMW(http.HandlerFunc(logsHandler.Users)))

	return mux
}
