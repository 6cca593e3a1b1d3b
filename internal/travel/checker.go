package travel

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput is returned when a checker input is malformed (zero
// timestamp or missing city reference). The check fails fast before any
// comparison runs; no partial verdict is ever produced.
var ErrInvalidInput = errors.New("invalid feasibility input")

// Assignment is one commitment of a staffing resource (observer, SNG unit or
// generator unit): an event in a city starting at a point in time. The event
// date and time are combined into a single UTC instant so deltas across day
// boundaries fall out of plain time arithmetic.
type Assignment struct {
	EventID  uint64    `json:"event_id"`
	CityID   uint64    `json:"city_id"`
	CityName string    `json:"city_name,omitempty"`
	StartsAt time.Time `json:"starts_at"`
}

// Verdict is the checker's answer. When Feasible is false it carries the
// numbers the API error payload needs: the travel hours required, the hours
// actually available, and the existing assignment that could not be reached
// in time. A Verdict is ephemeral; persisting or surfacing it is the
// caller's concern.
type Verdict struct {
	// The hour fields stay present even at zero: an infeasible verdict for
	// simultaneous events in different cities has available_hours == 0 and
	// the error payload must still carry it.
	Feasible       bool        `json:"feasible"`
	RequiredHours  float64     `json:"required_travel_hours"`
	AvailableHours float64     `json:"available_hours"`
	Conflict       *Assignment `json:"conflicting_assignment,omitempty"`

	// Defaulted lists the city pairs for which no distance edge was stored
	// and the fallback hours were assumed. It is populated on feasible and
	// infeasible verdicts alike so callers can log gaps for backfilling.
	Defaulted []Pair `json:"-"`
}

// CheckFeasibility decides whether a resource can attend the candidate
// assignment given its other commitments. It is a pure function: no I/O, no
// logging, no mutation of its inputs.
//
// Every existing assignment is evaluated, not just the nearest in time; a
// resource spread across several cities on one day can have more than one
// binding constraint. Same-city pairs never require travel and are always
// feasible regardless of the delta (double-booking is a uniqueness concern
// handled elsewhere). Different-city pairs are feasible iff the absolute
// time delta is at least the recorded travel time, falling back to
// defaultHours when no edge exists. The comparison is non-strict: exactly
// enough time passes.
//
// When several constraints are violated the verdict cites the WORST one,
// the violation with the largest shortfall, so the user sees the error they
// must fix first rather than an arbitrary pick.
func CheckFeasibility(candidate Assignment, existing []Assignment, g *Graph, defaultHours float64) (Verdict, error) {
	if err := validate(candidate); err != nil {
		return Verdict{}, err
	}
	for i, e := range existing {
		if err := validate(e); err != nil {
			return Verdict{}, fmt.Errorf("existing assignment %d: %w", i, err)
		}
	}
	if defaultHours < 0 {
		return Verdict{}, fmt.Errorf("%w: default hours must be >= 0", ErrInvalidInput)
	}
	if g == nil {
		return Verdict{}, fmt.Errorf("%w: nil distance graph", ErrInvalidInput)
	}

	var (
		worst          *Assignment
		worstShortfall float64
		worstRequired  float64
		worstAvailable float64
		defaulted      []Pair
	)
	for i := range existing {
		e := existing[i]
		if e.CityID == candidate.CityID {
			continue // no travel between same-city events
		}
		required, ok := g.TravelTime(e.CityID, candidate.CityID)
		if !ok {
			required = defaultHours
			defaulted = append(defaulted, canonical(e.CityID, candidate.CityID))
		}
		available := candidate.StartsAt.Sub(e.StartsAt).Hours()
		if available < 0 {
			available = -available
		}
		if available >= required {
			continue // enough time, boundary-inclusive
		}
		if shortfall := required - available; worst == nil || shortfall > worstShortfall {
			worst = &existing[i]
			worstShortfall = shortfall
			worstRequired = required
			worstAvailable = available
		}
	}

	if worst != nil {
		return Verdict{
			Feasible:       false,
			RequiredHours:  worstRequired,
			AvailableHours: worstAvailable,
			Conflict:       worst,
			Defaulted:      defaulted,
		}, nil
	}
	return Verdict{Feasible: true, Defaulted: defaulted}, nil
}

func validate(a Assignment) error {
	if a.CityID == 0 {
		return fmt.Errorf("%w: missing city reference", ErrInvalidInput)
	}
	if a.StartsAt.IsZero() {
		return fmt.Errorf("%w: missing date/time", ErrInvalidInput)
	}
	return nil
}
