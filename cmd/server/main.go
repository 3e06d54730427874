// Command server runs the admin console: a browser UI over the backend
// REST API and its identity provider.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"groupadmin/internal/api"
	"groupadmin/internal/apiclient"
	"groupadmin/internal/cache"
	"groupadmin/internal/db"
	"groupadmin/internal/idp"
	"groupadmin/internal/session"
	"groupadmin/internal/store"
	"groupadmin/internal/web"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	apiURL := flag.String("api", "http://localhost:8081", "backend API base URL")
	idpURL := flag.String("idp", "", "identity provider base URL (defaults to the API URL)")
	group := flag.String("group", "group1", "group whose logs and members the console manages")
	demo := flag.Bool("demo", false, "run an embedded demo backend instead of connecting to one")
	demoDB := flag.String("demo-db", "demoapi.sqlite3", "SQLite file for the embedded demo backend")
	flag.Parse()

	if *demo {
		embedded, err := startEmbeddedBackend(*demoDB)
		if err != nil {
			slog.Error("failed to start embedded demo backend", "error", err)
			os.Exit(1)
		}
		*apiURL = embedded
		slog.Info("embedded demo backend started", "url", embedded)
	}

	if *idpURL == "" {
		*idpURL = *apiURL
	}

	templates, err := web.LoadTemplates()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore()
	srv := &web.Server{
		Templates: templates,
		Cache:     cache.New(),
		API:       apiclient.NewClient(*apiURL, sessions),
		IdP:       idp.NewClient(*idpURL),
		Sessions:  sessions,
		GroupID:   *group,
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           api.LoggingMiddleware(srv.NewRouter()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("console started", "addr", *addr, "api", *apiURL, "group", *group)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("console stopped")
}

// startEmbeddedBackend serves the demo backend on a loopback listener and
// returns its base URL. A fresh database gets an admin account whose
// generated password is printed once.
func startEmbeddedBackend(dbPath string) (string, error) {
	_, statErr := os.Stat(dbPath)
	fresh := os.IsNotExist(statErr)

	database, err := db.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		return "", fmt.Errorf("migrating database: %w", err)
	}

	if fresh {
		password, err := randomString(16)
		if err != nil {
			database.Close()
			return "", fmt.Errorf("generating password: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			database.Close()
			return "", fmt.Errorf("hashing password: %w", err)
		}
		if err := store.CreateAccount(context.Background(), database, "admin", "admin", string(hash)); err != nil {
			database.Close()
			return "", fmt.Errorf("creating admin account: %w", err)
		}

		fmt.Println("Embedded demo backend initialized.")
		fmt.Println("Admin account created:")
		fmt.Printf("  Username: admin\n")
		fmt.Printf("  Password: %s\n", password)
		fmt.Println()
	}

	secret, err := randomString(32)
	if err != nil {
		database.Close()
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		database.Close()
		return "", fmt.Errorf("listening: %w", err)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, secret))
	go func() {
		if err := http.Serve(ln, handler); err != nil {
			slog.Error("embedded backend stopped", "error", err)
		}
	}()

	return "http://" + ln.Addr().String(), nil
}

// randomString creates a random secret of the given length.
func randomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
