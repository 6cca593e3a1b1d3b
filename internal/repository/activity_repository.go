// Package repository contains data access logic separated from HTTP handlers.
// This file persists the activity audit trail. Every admin mutation appends
// one row describing who did what to which entity; the REST layer writes
// rows best-effort so a logging failure never fails the user's request.
package repository

import (
	"context"
	"database/sql"
)

// ActivityLog represents one audit row.
type ActivityLog struct {
	ID          uint64
	UserID      uint64
	Action      string // created | updated | deleted | rejected
	EntityType  string // city | venue | observer | unit | event_type | event | distance
	EntityID    uint64
	Description string
	CreatedAt   string
}

// ActivityRepo manages persistence for the audit trail.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo constructs an ActivityRepo with the given DB handle.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Insert appends one audit row. The generated id is not needed by callers.
func (r *ActivityRepo) Insert(ctx context.Context, a *ActivityLog) error {
	const q = `INSERT INTO activity_logs (user_id, action, entity_type, entity_id, description)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, a.UserID, a.Action, a.EntityType, a.EntityID, a.Description)
	return err
}

// List returns audit rows newest first with limit/offset paging. A zero or
// negative limit falls back to 50, capped at 500 to keep responses bounded.
func (r *ActivityRepo) List(ctx context.Context, limit, offset int) ([]*ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT id, user_id, action, entity_type, entity_id, description, created_at
	           FROM activity_logs ORDER BY id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ActivityLog
	for rows.Next() {
		a := new(ActivityLog)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
