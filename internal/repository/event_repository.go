// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Event model and its repository. An event happens at
// a venue (which ties it to a city) on a date and time, and carries
// many-to-many staffing through the event_observers and event_units junction
// tables. The staffing replace and the event write share one transaction so
// a feasibility-checked schedule is committed atomically.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// Event statuses as stored in events.status.
const (
	EventStatusScheduled = "SCHEDULED"
	EventStatusCancelled = "CANCELLED"
	EventStatusCompleted = "COMPLETED"
)

// Event represents one event row plus joined display fields. StartsAt is the
// event date and time combined into one UTC instant; the API accepts date
// and time separately and the handler joins them before they reach here.
type Event struct {
	ID          uint64
	Title       string
	EventTypeID uint64
	VenueID     uint64
	StartsAt    time.Time
	Status      string
	CreatedBy   uint64
	CreatedAt   string
	UpdatedAt   string

	// Joined, read-only.
	CityID        uint64
	CityName      string
	VenueName     string
	EventTypeName string
}

// EventStaffing bundles the resource ids assigned to one event.
type EventStaffing struct {
	ObserverIDs []uint64
	UnitIDs     []uint64
}

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// EventRepo manages persistence for events and their staffing.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin transactions
// spanning the event row and its staffing junctions.
func (r *EventRepo) DB() *sql.DB {
	return r.db
}

const eventSelect = `SELECT e.id, e.title, e.event_type_id, e.venue_id, e.starts_at, e.status,
       e.created_by, e.created_at, e.updated_at,
       v.city_id, c.name, v.name, t.name
FROM events e
JOIN venues v ON v.id = e.venue_id
JOIN cities c ON c.id = v.city_id
JOIN event_types t ON t.id = e.event_type_id`

func scanEvent(row interface{ Scan(...any) error }, e *Event) error {
	return row.Scan(&e.ID, &e.Title, &e.EventTypeID, &e.VenueID, &e.StartsAt, &e.Status,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&e.CityID, &e.CityName, &e.VenueName, &e.EventTypeName)
}

// CreateTx inserts a new event using the provided transaction. It does not
// commit; the caller owns the transaction so the staffing insert and the
// event insert land together. On success the generated ID and DB-default
// fields are populated on the given Event, including the joined city.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *Event) error {
	const q = `INSERT INTO events (title, event_type_id, venue_id, starts_at, status, created_by)
	           VALUES (?, ?, ?, ?, ?, ?)`
	status := e.Status
	if status == "" {
		status = EventStatusScheduled
	}
	res, err := tx.ExecContext(ctx, q, e.Title, e.EventTypeID, e.VenueID, e.StartsAt.UTC(), status, e.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return scanEvent(tx.QueryRowContext(ctx, eventSelect+" WHERE e.id = ?", e.ID), e)
}

// UpdateTx rewrites the event's editable fields inside the caller's
// transaction and refreshes the struct from the joined select.
func (r *EventRepo) UpdateTx(ctx context.Context, tx *sql.Tx, e *Event) error {
	const q = `UPDATE events
	           SET title = ?, event_type_id = ?, venue_id = ?, starts_at = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, e.Title, e.EventTypeID, e.VenueID, e.StartsAt.UTC(), e.Status, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; distinguish from missing.
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM events WHERE id = ?", e.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrEventNotFound
		}
	}
	return scanEvent(tx.QueryRowContext(ctx, eventSelect+" WHERE e.id = ?", e.ID), e)
}

// GetByID fetches an event with venue, city and type names joined in.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*Event, error) {
	var e Event
	if err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+" WHERE e.id = ?", id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListRange returns events whose start falls in [from, to), with optional
// city, venue and type filters. This backs the calendar and table views.
func (r *EventRepo) ListRange(ctx context.Context, from, to time.Time, cityID, venueID, eventTypeID uint64) ([]*Event, error) {
	q := eventSelect + " WHERE e.starts_at >= ? AND e.starts_at < ?"
	args := []any{from.UTC(), to.UTC()}
	if cityID != 0 {
		q += " AND v.city_id = ?"
		args = append(args, cityID)
	}
	if venueID != 0 {
		q += " AND e.venue_id = ?"
		args = append(args, venueID)
	}
	if eventTypeID != 0 {
		q += " AND e.event_type_id = ?"
		args = append(args, eventTypeID)
	}
	q += " ORDER BY e.starts_at, e.id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		e := new(Event)
		if err := scanEvent(rows, e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceStaffingTx rewrites the full staffing of an event inside the
// caller's transaction: both junction tables are cleared and re-inserted, so
// the committed state is exactly the checked set whatever it was before.
func (r *EventRepo) ReplaceStaffingTx(ctx context.Context, tx *sql.Tx, eventID uint64, s EventStaffing) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_observers WHERE event_id = ?", eventID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_units WHERE event_id = ?", eventID); err != nil {
		return err
	}
	for _, oid := range s.ObserverIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_observers (event_id, observer_id) VALUES (?, ?)", eventID, oid); err != nil {
			return err
		}
	}
	for _, uid := range s.UnitIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_units (event_id, unit_id) VALUES (?, ?)", eventID, uid); err != nil {
			return err
		}
	}
	return nil
}

// Staffing returns the resource ids currently assigned to an event.
func (r *EventRepo) Staffing(ctx context.Context, eventID uint64) (EventStaffing, error) {
	var s EventStaffing
	rows, err := r.db.QueryContext(ctx,
		"SELECT observer_id FROM event_observers WHERE event_id = ? ORDER BY observer_id", eventID)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return s, err
		}
		s.ObserverIDs = append(s.ObserverIDs, id)
	}
	if err := rows.Err(); err != nil {
		return s, err
	}

	urows, err := r.db.QueryContext(ctx,
		"SELECT unit_id FROM event_units WHERE event_id = ? ORDER BY unit_id", eventID)
	if err != nil {
		return s, err
	}
	defer urows.Close()
	for urows.Next() {
		var id uint64
		if err := urows.Scan(&id); err != nil {
			return s, err
		}
		s.UnitIDs = append(s.UnitIDs, id)
	}
	return s, urows.Err()
}

// AssignmentsForObserver loads the observer's other scheduled commitments in
// the shape the travel checker consumes. The event being edited is excluded
// so an update is not compared against its own previous slot; cancelled
// events never constrain travel.
func (r *EventRepo) AssignmentsForObserver(ctx context.Context, observerID, excludeEventID uint64) ([]travel.Assignment, error) {
	return r.assignments(ctx, "event_observers", "observer_id", observerID, excludeEventID)
}

// AssignmentsForUnit loads the unit's other scheduled commitments in the
// shape the travel checker consumes.
func (r *EventRepo) AssignmentsForUnit(ctx context.Context, unitID, excludeEventID uint64) ([]travel.Assignment, error) {
	return r.assignments(ctx, "event_units", "unit_id", unitID, excludeEventID)
}

func (r *EventRepo) assignments(ctx context.Context, table, column string, resourceID, excludeEventID uint64) ([]travel.Assignment, error) {
	// table and column come from the two constant call sites above, never
	// from user input.
	q := `SELECT e.id, v.city_id, c.name, e.starts_at
	      FROM ` + table + ` j
	      JOIN events e ON e.id = j.event_id
	      JOIN venues v ON v.id = e.venue_id
	      JOIN cities c ON c.id = v.city_id
	      WHERE j.` + column + ` = ? AND e.id <> ? AND e.status <> ?
	      ORDER BY e.starts_at`
	rows, err := r.db.QueryContext(ctx, q, resourceID, excludeEventID, EventStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []travel.Assignment
	for rows.Next() {
		var a travel.Assignment
		if err := rows.Scan(&a.EventID, &a.CityID, &a.CityName, &a.StartsAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an event and its staffing rows in one transaction.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM event_observers WHERE event_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM event_units WHERE event_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrEventNotFound
		return err
	}
	return nil
}
