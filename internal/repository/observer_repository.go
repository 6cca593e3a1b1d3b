// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Observer model and its repository. Observers are the
// human staffing resources assigned to events; each can be attached to many
// events through the event_observers junction table.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Observer represents one observer row.
type Observer struct {
	ID        uint64
	Name      string
	Code      string // short unique roster code, e.g. "OBS-014"
	Phone     sql.NullString
	IsActive  bool
	CreatedAt string
	UpdatedAt string
}

// ErrObserverNotFound is returned when an observer cannot be found.
var ErrObserverNotFound = errors.New("observer not found")

// ObserverRepo manages persistence for observers.
type ObserverRepo struct {
	db *sql.DB
}

// NewObserverRepo constructs an ObserverRepo with the given DB handle.
func NewObserverRepo(db *sql.DB) *ObserverRepo {
	return &ObserverRepo{db: db}
}

// Create inserts a new observer and populates generated fields on success.
func (r *ObserverRepo) Create(ctx context.Context, o *Observer) error {
	const qInsert = "INSERT INTO observers (name, code, phone, is_active) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, o.Name, o.Code, o.Phone, o.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)

	const qSelect = "SELECT name, code, phone, is_active, created_at, updated_at FROM observers WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, o.ID).
		Scan(&o.Name, &o.Code, &o.Phone, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
}

// GetByID fetches an observer by id.
func (r *ObserverRepo) GetByID(ctx context.Context, id uint64) (*Observer, error) {
	const q = "SELECT id, name, code, phone, is_active, created_at, updated_at FROM observers WHERE id = ?"
	var o Observer
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&o.ID, &o.Name, &o.Code, &o.Phone, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrObserverNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List returns observers ordered by name, optionally only active ones.
func (r *ObserverRepo) List(ctx context.Context, activeOnly bool) ([]*Observer, error) {
	q := "SELECT id, name, code, phone, is_active, created_at, updated_at FROM observers"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Observer
	for rows.Next() {
		o := new(Observer)
		if err := rows.Scan(&o.ID, &o.Name, &o.Code, &o.Phone, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes an observer's editable fields.
func (r *ObserverRepo) Update(ctx context.Context, o *Observer) error {
	const q = `UPDATE observers SET name = ?, code = ?, phone = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, o.Name, o.Code, o.Phone, o.IsActive, o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an observer unless event assignments still reference them.
func (r *ObserverRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_observers WHERE observer_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM observers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
