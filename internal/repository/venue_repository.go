// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Venue model and its repository. A venue (stadium,
// arena, broadcast compound) belongs to exactly one city; events reference
// venues, which is how an event acquires its city for the travel check.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Venue represents a venue row. CityName is populated by joined reads and is
// never written directly.
type Venue struct {
	ID        uint64
	CityID    uint64
	Name      string
	Address   sql.NullString
	CityName  string // from joined cities.name, read-only
	CreatedAt string
	UpdatedAt string
}

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// Create inserts a new venue and populates generated fields on success.
func (r *VenueRepo) Create(ctx context.Context, v *Venue) error {
	const qInsert = "INSERT INTO venues (city_id, name, address) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, v.CityID, v.Name, v.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	const qSelect = `SELECT v.city_id, v.name, v.address, c.name, v.created_at, v.updated_at
	                 FROM venues v JOIN cities c ON c.id = v.city_id WHERE v.id = ?`
	return r.db.QueryRowContext(ctx, qSelect, v.ID).
		Scan(&v.CityID, &v.Name, &v.Address, &v.CityName, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID fetches a venue with its city name joined in.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*Venue, error) {
	const q = `SELECT v.id, v.city_id, v.name, v.address, c.name, v.created_at, v.updated_at
	           FROM venues v JOIN cities c ON c.id = v.city_id WHERE v.id = ?`
	var v Venue
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.CityID, &v.Name, &v.Address, &v.CityName, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns venues, optionally restricted to one city, ordered by name.
func (r *VenueRepo) List(ctx context.Context, cityID uint64) ([]*Venue, error) {
	q := `SELECT v.id, v.city_id, v.name, v.address, c.name, v.created_at, v.updated_at
	      FROM venues v JOIN cities c ON c.id = v.city_id`
	args := []any{}
	if cityID != 0 {
		q += " WHERE v.city_id = ?"
		args = append(args, cityID)
	}
	q += " ORDER BY v.name"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Venue
	for rows.Next() {
		v := new(Venue)
		if err := rows.Scan(&v.ID, &v.CityID, &v.Name, &v.Address, &v.CityName, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a venue's city, name and address.
func (r *VenueRepo) Update(ctx context.Context, v *Venue) error {
	const q = `UPDATE venues SET city_id = ?, name = ?, address = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.CityID, v.Name, v.Address, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a venue unless events still reference it, in which case
// ErrConflict is returned.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE venue_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM venues WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
