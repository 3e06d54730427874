package store

import (
	"context"
	"database/sql"
	"fmt"

	"groupadmin/internal/model"
)

// CreateUser inserts a new user record.
func CreateUser(ctx context.Context, db *sql.DB, user model.User) (*model.User, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (userid, username, email) VALUES (?, ?, ?)`,
		user.UserID, user.Username, user.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, user.UserID)
}

// GetUser returns a user by ID, or nil when none exists.
func GetUser(ctx context.Context, db *sql.DB, userid string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT userid, username, email FROM users WHERE userid = ?`, userid,
	).Scan(&u.UserID, &u.Username, &u.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by ID.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT userid, username, email FROM users ORDER BY userid`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update and returns the updated record, or
// nil when the user does not exist.
func UpdateUser(ctx context.Context, db *sql.DB, userid string, patch model.UserPatch) (*model.User, error) {
	set := ""
	args := []any{}
	if patch.Username != nil {
		set += "username = ?"
		args = append(args, *patch.Username)
	}
	if patch.Email != nil {
		if set != "" {
			set += ", "
		}
		set += "email = ?"
		args = append(args, *patch.Email)
	}
	if set == "" {
		// Nothing to change; behave like a read.
		return GetUser(ctx, db, userid)
	}

	args = append(args, userid)
	result, err := db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE userid = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}

	return GetUser(ctx, db, userid)
}

// DeleteUser removes a user. Returns false when no such user exists.
func DeleteUser(ctx context.Context, db *sql.DB, userid string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE userid = ?`, userid)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
