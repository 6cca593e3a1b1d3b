// Package repository contains data access logic separated from HTTP handlers.
// This file defines the equipment Unit model and its repository. Units cover
// both SNG trucks and mobile generators; the unit_type column tells them
// apart while the scheduling and travel logic treats both identically (a
// unit can only be in one city at a time). Units attach to events through
// the event_units junction table.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Unit types as stored in units.unit_type.
const (
	UnitTypeSNG       = "SNG"
	UnitTypeGenerator = "GENERATOR"
)

// Unit represents one equipment unit row.
type Unit struct {
	ID          uint64
	Code        string // fleet code, e.g. "SNG-07" or "GEN-12"
	UnitType    string // UnitTypeSNG or UnitTypeGenerator
	Description sql.NullString
	IsActive    bool
	CreatedAt   string
	UpdatedAt   string
}

// ErrUnitNotFound is returned when a unit cannot be found.
var ErrUnitNotFound = errors.New("unit not found")

// ErrBadUnitType is returned when a unit type outside the known set is used.
var ErrBadUnitType = errors.New("unknown unit type")

// UnitRepo manages persistence for SNG and generator units.
type UnitRepo struct {
	db *sql.DB
}

// NewUnitRepo constructs a UnitRepo with the given DB handle.
func NewUnitRepo(db *sql.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

func validUnitType(t string) bool {
	return t == UnitTypeSNG || t == UnitTypeGenerator
}

// Create inserts a new unit and populates generated fields on success.
func (r *UnitRepo) Create(ctx context.Context, u *Unit) error {
	if !validUnitType(u.UnitType) {
		return ErrBadUnitType
	}
	const qInsert = "INSERT INTO units (code, unit_type, description, is_active) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, u.Code, u.UnitType, u.Description, u.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	const qSelect = "SELECT code, unit_type, description, is_active, created_at, updated_at FROM units WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, u.ID).
		Scan(&u.Code, &u.UnitType, &u.Description, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// GetByID fetches a unit by id.
func (r *UnitRepo) GetByID(ctx context.Context, id uint64) (*Unit, error) {
	const q = "SELECT id, code, unit_type, description, is_active, created_at, updated_at FROM units WHERE id = ?"
	var u Unit
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Code, &u.UnitType, &u.Description, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns units ordered by code, optionally filtered by type and/or
// restricted to active ones. Pass unitType == "" for all types.
func (r *UnitRepo) List(ctx context.Context, unitType string, activeOnly bool) ([]*Unit, error) {
	if unitType != "" && !validUnitType(unitType) {
		return nil, ErrBadUnitType
	}
	q := "SELECT id, code, unit_type, description, is_active, created_at, updated_at FROM units"
	var (
		conds []string
		args  []any
	)
	if unitType != "" {
		conds = append(conds, "unit_type = ?")
		args = append(args, unitType)
	}
	if activeOnly {
		conds = append(conds, "is_active = 1")
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY code"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Unit
	for rows.Next() {
		u := new(Unit)
		if err := rows.Scan(&u.ID, &u.Code, &u.UnitType, &u.Description, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a unit's editable fields. The unit type is immutable after
// creation; a truck does not become a generator.
func (r *UnitRepo) Update(ctx context.Context, u *Unit) error {
	const q = `UPDATE units SET code = ?, description = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.Code, u.Description, u.IsActive, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a unit unless event assignments still reference it.
func (r *UnitRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_units WHERE unit_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM units WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
