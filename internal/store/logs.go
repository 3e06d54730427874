package store

import (
	"context"
	"database/sql"
	"fmt"

	"groupadmin/internal/model"
)

// LogKey is the continuation key for the logs table: the composite primary
// key of the last item on a page.
type LogKey struct {
	GroupID   string `json:"groupid"`
	CreatedAt string `json:"created_at"`
}

// LogsFilter narrows a log listing. Begin/End are inclusive ISO timestamp
// bounds on created_at. UserID and Type select the by-user or by-type query
// path; callers pass at most one.
type LogsFilter struct {
	Begin  string
	End    string
	UserID string
	Type   string
	Limit  int
	After  *LogKey
}

// InsertLog stores a log entry.
func InsertLog(ctx context.Context, db *sql.DB, entry model.LogEntry) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO logs (groupid, created_at, userid, username, type, message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.GroupID, entry.CreatedAt, entry.UserID, entry.Username, entry.Type, entry.Message,
	)
	if err != nil {
		return fmt.Errorf("inserting log: %w", err)
	}
	return nil
}

// ListLogs returns one page of a group's logs in created_at order plus the
// continuation key, or nil when the result set is exhausted.
func ListLogs(ctx context.Context, db *sql.DB, groupid string, f LogsFilter) ([]model.LogEntry, *LogKey, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 25
	}

	where := "groupid = ?"
	args := []any{groupid}

	if f.UserID != "" {
		where += " AND userid = ?"
		args = append(args, f.UserID)
	}
	if f.Type != "" {
		where += " AND type = ?"
		args = append(args, f.Type)
	}
	if f.Begin != "" {
		where += " AND created_at >= ?"
		args = append(args, f.Begin)
	}
	if f.End != "" {
		where += " AND created_at <= ?"
		args = append(args, f.End)
	}
	if f.After != nil {
		where += " AND created_at > ?"
		args = append(args, f.After.CreatedAt)
	}

	args = append(args, limit+1)
	rows, err := db.QueryContext(ctx,
		`SELECT groupid, created_at, userid, username, type, message
		 FROM logs WHERE `+where+` ORDER BY created_at LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("listing logs: %w", err)
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.GroupID, &e.CreatedAt, &e.UserID, &e.Username, &e.Type, &e.Message); err != nil {
			return nil, nil, fmt.Errorf("scanning log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *LogKey
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		next = &LogKey{GroupID: last.GroupID, CreatedAt: last.CreatedAt}
	}
	return entries, next, nil
}

// ListGroupUsers returns the members of a group.
func ListGroupUsers(ctx context.Context, db *sql.DB, groupid string) ([]model.GroupUser, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT u.userid, u.username
		 FROM group_members m JOIN users u ON u.userid = m.userid
		 WHERE m.groupid = ? ORDER BY u.userid`, groupid,
	)
	if err != nil {
		return nil, fmt.Errorf("listing group users: %w", err)
	}
	defer rows.Close()

	var users []model.GroupUser
	for rows.Next() {
		var u model.GroupUser
		if err := rows.Scan(&u.UserID, &u.Username); err != nil {
			return nil, fmt.Errorf("scanning group user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddGroupMember records a user's membership in a group.
func AddGroupMember(ctx context.Context, db *sql.DB, groupid, userid string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (groupid, userid) VALUES (?, ?)`,
		groupid, userid,
	)
	if err != nil {
		return fmt.Errorf("adding group member: %w", err)
	}
	return nil
}
