// Package repository contains data access logic separated from HTTP handlers.
// This file persists the city-distance edges backing the travel.Graph. The
// table stores one row per unordered city pair with city_a_id < city_b_id
// and a unique key over (city_a_id, city_b_id); the repository canonicalizes
// before every write so inserting (A,B) after (B,A) updates rather than
// duplicates. The same invariant lives in travel.Graph for the in-memory
// side; enforcing it here as well keeps the table clean no matter which
// caller writes.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// CityDistance mirrors one row of the city_distances table.
type CityDistance struct {
	ID              uint64         // primary key
	CityAID         uint64         // smaller city id of the pair
	CityBID         uint64         // larger city id of the pair
	TravelTimeHours float64        // travel time between the two cities in hours
	Notes           sql.NullString // optional admin note (road works, ferry, ...)
	CreatedAt       string
	UpdatedAt       string
}

// ErrDistanceNotFound is returned when no edge exists for a pair.
var ErrDistanceNotFound = errors.New("distance not found")

// DistanceRepo manages persistence for city distance edges.
type DistanceRepo struct {
	db *sql.DB
}

// NewDistanceRepo constructs a DistanceRepo with the given DB handle.
func NewDistanceRepo(db *sql.DB) *DistanceRepo {
	return &DistanceRepo{db: db}
}

// Upsert stores the travel time for an unordered city pair. Self-loops are
// rejected with travel.ErrSelfLoop and negative hours with
// travel.ErrNegativeHours, matching the in-memory graph. The MySQL
// ON DUPLICATE KEY UPDATE clause makes the second write for the same pair an
// update, relying on the unique key over the canonical column order.
func (r *DistanceRepo) Upsert(ctx context.Context, cityA, cityB uint64, hours float64, notes sql.NullString) (*CityDistance, error) {
	if cityA == cityB {
		return nil, travel.ErrSelfLoop
	}
	if hours < 0 {
		return nil, travel.ErrNegativeHours
	}
	if cityA > cityB {
		cityA, cityB = cityB, cityA
	}
	const q = `INSERT INTO city_distances (city_a_id, city_b_id, travel_time_hours, notes)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE travel_time_hours = VALUES(travel_time_hours),
	                                   notes = VALUES(notes),
	                                   updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, q, cityA, cityB, hours, notes); err != nil {
		return nil, err
	}
	return r.GetByPair(ctx, cityA, cityB)
}

// GetByPair fetches the edge for an unordered pair, canonicalizing first.
func (r *DistanceRepo) GetByPair(ctx context.Context, cityA, cityB uint64) (*CityDistance, error) {
	if cityA == cityB {
		return nil, travel.ErrSelfLoop
	}
	if cityA > cityB {
		cityA, cityB = cityB, cityA
	}
	const q = `SELECT id, city_a_id, city_b_id, travel_time_hours, notes, created_at, updated_at
	           FROM city_distances WHERE city_a_id = ? AND city_b_id = ?`
	var d CityDistance
	if err := r.db.QueryRowContext(ctx, q, cityA, cityB).
		Scan(&d.ID, &d.CityAID, &d.CityBID, &d.TravelTimeHours, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDistanceNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all stored edges ordered by pair.
func (r *DistanceRepo) List(ctx context.Context) ([]*CityDistance, error) {
	const q = `SELECT id, city_a_id, city_b_id, travel_time_hours, notes, created_at, updated_at
	           FROM city_distances ORDER BY city_a_id, city_b_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CityDistance
	for rows.Next() {
		d := new(CityDistance)
		if err := rows.Scan(&d.ID, &d.CityAID, &d.CityBID, &d.TravelTimeHours, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadGraph reads every stored edge into a fresh travel.Graph. The event
// workflow loads the graph once per request so the feasibility check sees a
// coherent snapshot.
func (r *DistanceRepo) LoadGraph(ctx context.Context) (*travel.Graph, error) {
	const q = "SELECT city_a_id, city_b_id, travel_time_hours FROM city_distances"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	g := travel.NewGraph()
	for rows.Next() {
		var a, b uint64
		var hours float64
		if err := rows.Scan(&a, &b, &hours); err != nil {
			return nil, err
		}
		if err := g.UpsertEdge(a, b, hours); err != nil {
			return nil, err // a stored self-loop or negative row means corrupt data
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// BulkInsertDefaults persists one edge per pair with the given default
// hours. INSERT IGNORE skips pairs that gained an edge since the missing
// list was computed, which keeps the fill idempotent under re-runs and
// concurrent admin edits.
func (r *DistanceRepo) BulkInsertDefaults(ctx context.Context, pairs []travel.Pair, hours float64) (int64, error) {
	if hours < 0 {
		return 0, travel.ErrNegativeHours
	}
	if len(pairs) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	const q = `INSERT IGNORE INTO city_distances (city_a_id, city_b_id, travel_time_hours)
	           VALUES (?, ?, ?)`
	var created int64
	for _, p := range pairs {
		var res sql.Result
		if res, err = tx.ExecContext(ctx, q, p.A, p.B, hours); err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		created += n
	}
	return created, nil
}

// Delete removes the edge for a pair, in either order.
func (r *DistanceRepo) Delete(ctx context.Context, cityA, cityB uint64) error {
	a, b := cityA, cityB
	if a > b {
		a, b = b, a
	}
	const q = "DELETE FROM city_distances WHERE city_a_id = ? AND city_b_id = ?"
	res, err := r.db.ExecContext(ctx, q, a, b)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDistanceNotFound
	}
	return nil
}
