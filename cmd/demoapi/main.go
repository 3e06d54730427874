// Command demoapi runs the demo backend: the identity provider plus the
// user, item and group log REST API the console talks to.
package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"groupadmin/internal/api"
	"groupadmin/internal/db"
	"groupadmin/internal/model"
	"groupadmin/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: demoapi <init|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: demoapi <init|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "demoapi.sqlite3", "path to SQLite database file")
	group := fs.String("group", "group1", "group to seed with sample data")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	database, password, err := initDatabase(*dbPath, *group)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	database.Close()

	printInitResult(*dbPath, password)
}

func printInitResult(dbPath, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized and sample data seeded.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: admin\n")
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", "demoapi.sqlite3", "path to SQLite database file")
	addr := fs.String("addr", ":8081", "listen address")
	jwtSecret := fs.String("jwt-secret", "", "JWT signing key (auto-generated if empty)")
	group := fs.String("group", "group1", "group to seed with sample data")
	fs.Parse(args)

	if *jwtSecret == "" {
		secret, err := randomString(32)
		if err != nil {
			slog.Error("failed to generate JWT secret", "error", err)
			os.Exit(1)
		}
		*jwtSecret = secret
		slog.Info("JWT secret auto-generated, tokens will be invalidated on restart")
	}

	// Auto-init on first run.
	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		database, password, err := initDatabase(*dbPath, *group)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		database.Close()
		printInitResult(*dbPath, password)
		fmt.Println()
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, *jwtSecret))

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
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

	slog.Info("demo backend started", "addr", *addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// initDatabase creates a new database, ensures the schema, creates the
// admin account and seeds sample data for the given group.
func initDatabase(path, group string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.Migrate(database); err != nil {
		return fail(fmt.Errorf("running migrations: %w", err))
	}

	password, err := randomString(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	ctx := context.Background()
	if err := store.CreateAccount(ctx, database, "admin", "admin", string(hash)); err != nil {
		return fail(fmt.Errorf("creating admin account: %w", err))
	}

	if err := seedSampleData(ctx, database, group); err != nil {
		return fail(fmt.Errorf("seeding sample data: %w", err))
	}

	return database, password, nil
}

func seedSampleData(ctx context.Context, database *sql.DB, group string) error {
	users := []model.User{
		{UserID: "u-alice", Username: "alice", Email: "alice@example.com"},
		{UserID: "u-bob", Username: "bob", Email: "bob@example.com"},
		{UserID: "u-carol", Username: "carol", Email: "carol@example.com"},
	}
	for _, u := range users {
		if _, err := store.CreateUser(ctx, database, u); err != nil {
			return err
		}
		if err := store.AddGroupMember(ctx, database, group, u.UserID); err != nil {
			return err
		}
	}

	items := []model.Item{
		{ID: "i-hammer", Name: "Hammer", Price: 12.50, Category: "tools"},
		{ID: "i-drill", Name: "Drill", Price: 89.00, Category: "tools"},
		{ID: "i-tape", Name: "Duct tape", Price: 4.20, Category: "consumables"},
	}
	for _, item := range items {
		if _, err := store.CreateItem(ctx, database, item); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	types := []string{"INFO", "INFO", "WARN", "ERROR", "INFO", "WARN", "INFO", "INFO", "ERROR", "INFO"}
	for i, typ := range types {
		u := users[i%len(users)]
		entry := model.LogEntry{
			GroupID:   group,
			CreatedAt: now.Add(time.Duration(i-len(types)) * time.Hour).Format(time.RFC3339),
			UserID:    u.UserID,
			Username:  u.Username,
			Type:      typ,
			Message:   fmt.Sprintf("sample event %d", i+1),
		}
		if err := store.InsertLog(ctx, database, entry); err != nil {
			return err
		}
	}

	return nil
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
