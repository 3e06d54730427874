package db

import (
	"database/sql"
	"fmt"
)

// schema is the full demo backend schema. The logs table mirrors the
// upstream key design: (groupid, created_at) is the primary key, with
// secondary indexes standing in for the by-user and by-type query paths.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    userid     TEXT PRIMARY KEY,
    username   TEXT NOT NULL,
    email      TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    price      REAL NOT NULL CHECK (price >= 0),
    category   TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS logs (
    groupid    TEXT NOT NULL,
    created_at TEXT NOT NULL,
    userid     TEXT NOT NULL,
    username   TEXT NOT NULL,
    type       TEXT NOT NULL CHECK (type IN ('INFO', 'WARN', 'ERROR')),
    message    TEXT NOT NULL,
    PRIMARY KEY (groupid, created_at)
);

CREATE INDEX IF NOT EXISTS idx_logs_group_user ON logs(groupid, userid, created_at);
CREATE INDEX IF NOT EXISTS idx_logs_group_type ON logs(groupid, type, created_at);

CREATE TABLE IF NOT EXISTS group_members (
    groupid TEXT NOT NULL,
    userid  TEXT NOT NULL REFERENCES users(userid) ON DELETE CASCADE,
    PRIMARY KEY (groupid, userid)
);

CREATE TABLE IF NOT EXISTS accounts (
    userid        TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
