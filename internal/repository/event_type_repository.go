// Package repository contains data access logic separated from HTTP handlers.
// This file defines the EventType model and its repository. Event types
// (league match, friendly, press conference, ...) classify events for the
// calendar filters.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// EventType represents one event type row.
type EventType struct {
	ID        uint64
	Name      string
	Code      string // short stable code used by the dashboard filters
	CreatedAt string
	UpdatedAt string
}

// ErrEventTypeNotFound is returned when an event type cannot be found.
var ErrEventTypeNotFound = errors.New("event type not found")

// EventTypeRepo manages persistence for event types.
type EventTypeRepo struct {
	db *sql.DB
}

// NewEventTypeRepo constructs an EventTypeRepo with the given DB handle.
func NewEventTypeRepo(db *sql.DB) *EventTypeRepo {
	return &EventTypeRepo{db: db}
}

// Create inserts a new event type and populates generated fields on success.
func (r *EventTypeRepo) Create(ctx context.Context, t *EventType) error {
	const qInsert = "INSERT INTO event_types (name, code) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, t.Name, t.Code)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	const qSelect = "SELECT name, code, created_at, updated_at FROM event_types WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, t.ID).
		Scan(&t.Name, &t.Code, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches an event type by id.
func (r *EventTypeRepo) GetByID(ctx context.Context, id uint64) (*EventType, error) {
	const q = "SELECT id, name, code, created_at, updated_at FROM event_types WHERE id = ?"
	var t EventType
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&t.ID, &t.Name, &t.Code, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all event types ordered by name.
func (r *EventTypeRepo) List(ctx context.Context) ([]*EventType, error) {
	const q = "SELECT id, name, code, created_at, updated_at FROM event_types ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*EventType
	for rows.Next() {
		t := new(EventType)
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes an event type's name and code.
func (r *EventTypeRepo) Update(ctx context.Context, t *EventType) error {
	const q = "UPDATE event_types SET name = ?, code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Code, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an event type unless events still reference it.
func (r *EventTypeRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE event_type_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM event_types WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
