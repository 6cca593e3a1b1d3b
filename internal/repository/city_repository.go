// Package repository contains data access logic separated from HTTP handlers.
// This file defines the City model and repository methods for CRUD and lookup
// operations. Cities are referenced by venues, events (through venues) and
// the distance edges, so a city is never hard-deleted while referenced.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
)

// City represents a city persisted in the database. Coordinates are optional
// because admins often create a city long before anyone bothers to geocode it.
type City struct {
	ID        uint64          // ID is the unique identifier of the city
	Name      string          // Name is the display name (e.g. "Riyadh")
	Country   string          // Country the city belongs to
	Lat       sql.NullFloat64 // Lat is the optional latitude
	Lng       sql.NullFloat64 // Lng is the optional longitude
	IsActive  bool            // IsActive marks whether the city can be scheduled against
	CreatedAt string          // CreatedAt stores when the row was created
	UpdatedAt string          // UpdatedAt stores when the row was last updated
}

// ErrCityNotFound is returned when a city cannot be found in the DB.
var ErrCityNotFound = errors.New("city not found")

// CityRepo encapsulates all database queries related to cities.
type CityRepo struct {
	db *sql.DB
}

// NewCityRepo constructs a CityRepo with the provided DB handle.
func NewCityRepo(db *sql.DB) *CityRepo {
	return &CityRepo{db: db}
}

// Create inserts a new city. On success the city's ID field is populated
// with the auto-generated value and a follow-up SELECT fills the timestamp
// fields so callers receive a fully populated record.
func (r *CityRepo) Create(ctx context.Context, c *City) error {
	const qInsert = "INSERT INTO cities (name, country, lat, lng, is_active) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Country, c.Lat, c.Lng, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT name, country, lat, lng, is_active, created_at, updated_at FROM cities WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.Name, &c.Country, &c.Lat, &c.Lng, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a city by its ID. It returns ErrCityNotFound if no row exists.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (*City, error) {
	const q = "SELECT id, name, country, lat, lng, is_active, created_at, updated_at FROM cities WHERE id = ?"
	var c City
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.Name, &c.Country, &c.Lat, &c.Lng, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all cities ordered by name. Pass activeOnly to restrict the
// result to cities that can currently be scheduled against.
func (r *CityRepo) List(ctx context.Context, activeOnly bool) ([]*City, error) {
	q := "SELECT id, name, country, lat, lng, is_active, created_at, updated_at FROM cities"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*City
	for rows.Next() {
		c := new(City)
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Lat, &c.Lng, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveIDs returns the ids of all active cities. The distance audit and the
// bulk-fill tool enumerate pairs over exactly this set.
func (r *CityRepo) ActiveIDs(ctx context.Context) ([]uint64, error) {
	const q = "SELECT id FROM cities WHERE is_active = 1 ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Update changes a city's editable fields. It returns sql.ErrNoRows when no
// row is affected (not found).
func (r *CityRepo) Update(ctx context.Context, c *City) error {
	const q = `UPDATE cities
	           SET name = ?, country = ?, lat = ?, lng = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Country, c.Lat, c.Lng, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a city only when nothing references it. Venues and distance
// edges keep historical meaning, so a referenced city must be deactivated
// instead; in that case ErrConflict is returned.
func (r *CityRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	const qRefs = `SELECT
	                 (SELECT COUNT(*) FROM venues WHERE city_id = ?) +
	                 (SELECT COUNT(*) FROM city_distances WHERE city_a_id = ? OR city_b_id = ?)`
	if err := r.db.QueryRowContext(ctx, qRefs, id, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM cities WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
