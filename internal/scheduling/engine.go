// Package scheduling orchestrates the travel feasibility check for a whole
// event: it loads each assigned resource's other commitments and a distance
// graph snapshot, runs the pure checker per resource, and reports every
// resource that cannot make it. The package performs no writes; committing
// or rejecting the event stays with the HTTP layer.
package scheduling

import (
	"context"
	"fmt"

	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// Resource kinds reported in violations.
const (
	KindObserver = "observer"
	KindUnit     = "unit"
)

// Staffing lists the resource ids proposed for an event.
type Staffing struct {
	ObserverIDs []uint64
	UnitIDs     []uint64
}

// Violation records one resource that cannot feasibly attend the candidate
// event, with the verdict the travel checker produced for it.
type Violation struct {
	Kind       string         `json:"kind"`
	ResourceID uint64         `json:"resource_id"`
	Verdict    travel.Verdict `json:"verdict"`
}

// Result is the outcome of checking an event's full staffing set.
type Result struct {
	Feasible   bool
	Violations []Violation
	// Defaulted aggregates the city pairs for which no distance was stored
	// and the fallback hours were used, across all resources. Callers log
	// these so the missing edges get backfilled.
	Defaulted []travel.Pair
}

// Worst returns the violation with the largest shortfall between required
// and available hours, or nil when the result is feasible. The event
// handler surfaces this one in the error payload.
func (r *Result) Worst() *Violation {
	var worst *Violation
	var worstShort float64
	for i := range r.Violations {
		v := &r.Violations[i]
		if short := v.Verdict.RequiredHours - v.Verdict.AvailableHours; worst == nil || short > worstShort {
			worst = v
			worstShort = short
		}
	}
	return worst
}

// Engine wires the data sources to the pure checker.
type Engine struct {
	assignments  AssignmentSource
	distances    DistanceSource
	defaultHours float64
}

// NewEngine constructs an Engine. defaultHours is the configured fallback
// travel time for city pairs with no recorded distance.
func NewEngine(assignments AssignmentSource, distances DistanceSource, defaultHours float64) *Engine {
	return &Engine{assignments: assignments, distances: distances, defaultHours: defaultHours}
}

// CheckEvent verifies that every proposed resource can feasibly attend the
// candidate assignment, given their other commitments. All resources are
// evaluated even after the first violation so the caller can report the
// complete set. The check is advisory: the caller must still commit the
// write inside a transaction to close the race between two writers that
// both saw "feasible".
func (e *Engine) CheckEvent(ctx context.Context, candidate travel.Assignment, staffing Staffing) (*Result, error) {
	g, err := e.distances.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load distance graph: %w", err)
	}

	res := &Result{Feasible: true}
	seen := make(map[travel.Pair]bool)

	check := func(kind string, id uint64, existing []travel.Assignment) error {
		verdict, err := travel.CheckFeasibility(candidate, existing, g, e.defaultHours)
		if err != nil {
			return fmt.Errorf("%s %d: %w", kind, id, err)
		}
		for _, p := range verdict.Defaulted {
			if !seen[p] {
				seen[p] = true
				res.Defaulted = append(res.Defaulted, p)
			}
		}
		if !verdict.Feasible {
			res.Feasible = false
			res.Violations = append(res.Violations, Violation{Kind: kind, ResourceID: id, Verdict: verdict})
		}
		return nil
	}

	for _, oid := range staffing.ObserverIDs {
		existing, err := e.assignments.AssignmentsForObserver(ctx, oid, candidate.EventID)
		if err != nil {
			return nil, fmt.Errorf("load observer %d assignments: %w", oid, err)
		}
		if err := check(KindObserver, oid, existing); err != nil {
			return nil, err
		}
	}
	for _, uid := range staffing.UnitIDs {
		existing, err := e.assignments.AssignmentsForUnit(ctx, uid, candidate.EventID)
		if err != nil {
			return nil, fmt.Errorf("load unit %d assignments: %w", uid, err)
		}
		if err := check(KindUnit, uid, existing); err != nil {
			return nil, err
		}
	}
	return res, nil
}
