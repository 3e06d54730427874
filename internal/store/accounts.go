package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Account is a sign-in account at the demo identity provider, separate from
// the managed user records.
type Account struct {
	UserID       string
	Username     string
	PasswordHash string
}

// CreateAccount creates a new sign-in account.
func CreateAccount(ctx context.Context, db *sql.DB, userid, username, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO accounts (userid, username, password_hash) VALUES (?, ?, ?)`,
		userid, username, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

// GetAccountByUsername returns an account by username, or nil when none
// exists.
func GetAccountByUsername(ctx context.Context, db *sql.DB, username string) (*Account, error) {
	a := &Account{}
	err := db.QueryRowContext(ctx,
		`SELECT userid, username, password_hash FROM accounts WHERE username = ?`, username,
	).Scan(&a.UserID, &a.Username, &a.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}
