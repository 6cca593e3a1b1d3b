package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return v
}

// setupEngine builds an Engine whose sources serve the given fixed data.
func setupEngine(t testing.TB, g *travel.Graph, observers, units map[uint64][]travel.Assignment, defaultHours float64) *Engine {
	src := &MockAssignmentSource{
		AssignmentsForObserverFunc: func(ctx context.Context, id, exclude uint64) ([]travel.Assignment, error) {
			var out []travel.Assignment
			for _, a := range observers[id] {
				if a.EventID != exclude {
					out = append(out, a)
				}
			}
			return out, nil
		},
		AssignmentsForUnitFunc: func(ctx context.Context, id, exclude uint64) ([]travel.Assignment, error) {
			var out []travel.Assignment
			for _, a := range units[id] {
				if a.EventID != exclude {
					out = append(out, a)
				}
			}
			return out, nil
		},
	}
	dist := &MockDistanceSource{
		LoadGraphFunc: func(ctx context.Context) (*travel.Graph, error) { return g, nil },
	}
	return NewEngine(src, dist, defaultHours)
}

func TestCheckEventAllResourcesFeasible(t *testing.T) {
	g := travel.NewGraph()
	if err := g.UpsertEdge(1, 2, 1.5); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	observers := map[uint64][]travel.Assignment{
		7: {{EventID: 3, CityID: 2, StartsAt: ts(t, "2025-01-01 08:00")}},
	}
	units := map[uint64][]travel.Assignment{
		40: {{EventID: 3, CityID: 1, StartsAt: ts(t, "2025-01-01 09:00")}},
	}
	eng := setupEngine(t, g, observers, units, 5)

	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	res, err := eng.CheckEvent(context.Background(), candidate, Staffing{ObserverIDs: []uint64{7}, UnitIDs: []uint64{40}})
	if err != nil {
		t.Fatalf("CheckEvent: %v", err)
	}
	if !res.Feasible || len(res.Violations) != 0 {
		t.Fatalf("result = %+v; want feasible with no violations", res)
	}
}

func TestCheckEventReportsEveryInfeasibleResource(t *testing.T) {
	g := travel.NewGraph()
	if err := g.UpsertEdge(1, 2, 4); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	// Both the observer and the SNG are in city 2 one hour before the
	// candidate; neither can cover the 4h trip.
	observers := map[uint64][]travel.Assignment{
		7: {{EventID: 3, CityID: 2, StartsAt: ts(t, "2025-01-01 11:00")}},
	}
	units := map[uint64][]travel.Assignment{
		40: {{EventID: 4, CityID: 2, StartsAt: ts(t, "2025-01-01 11:00")}},
	}
	eng := setupEngine(t, g, observers, units, 5)

	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	res, err := eng.CheckEvent(context.Background(), candidate, Staffing{ObserverIDs: []uint64{7}, UnitIDs: []uint64{40}})
	if err != nil {
		t.Fatalf("CheckEvent: %v", err)
	}
	if res.Feasible {
		t.Fatal("two stranded resources reported feasible")
	}
	if len(res.Violations) != 2 {
		t.Fatalf("violations = %d; want 2 (check must not stop at the first)", len(res.Violations))
	}
	kinds := map[string]bool{}
	for _, v := range res.Violations {
		kinds[v.Kind] = true
	}
	if !kinds[KindObserver] || !kinds[KindUnit] {
		t.Fatalf("violations = %+v; want one observer and one unit", res.Violations)
	}
}

func TestCheckEventWorstPicksLargestShortfall(t *testing.T) {
	g := travel.NewGraph()
	if err := g.UpsertEdge(1, 2, 2); err != nil { // shortfall 1h for the observer
		t.Fatalf("UpsertEdge: %v", err)
	}
	if err := g.UpsertEdge(1, 3, 8); err != nil { // shortfall 7h for the unit
		t.Fatalf("UpsertEdge: %v", err)
	}
	observers := map[uint64][]travel.Assignment{
		7: {{EventID: 3, CityID: 2, StartsAt: ts(t, "2025-01-01 11:00")}},
	}
	units := map[uint64][]travel.Assignment{
		40: {{EventID: 4, CityID: 3, StartsAt: ts(t, "2025-01-01 11:00")}},
	}
	eng := setupEngine(t, g, observers, units, 5)

	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	res, err := eng.CheckEvent(context.Background(), candidate, Staffing{ObserverIDs: []uint64{7}, UnitIDs: []uint64{40}})
	if err != nil {
		t.Fatalf("CheckEvent: %v", err)
	}
	worst := res.Worst()
	if worst == nil || worst.Kind != KindUnit || worst.ResourceID != 40 {
		t.Fatalf("Worst() = %+v; want the unit with the 7h shortfall", worst)
	}
}

func TestCheckEventExcludesEditedEvent(t *testing.T) {
	g := travel.NewGraph()
	// The observer's only other commitment IS the event being edited; it
	// must not constrain its own update.
	observers := map[uint64][]travel.Assignment{
		7: {{EventID: 10, CityID: 9, StartsAt: ts(t, "2025-01-01 11:59")}},
	}
	eng := setupEngine(t, g, observers, nil, 5)

	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	res, err := eng.CheckEvent(context.Background(), candidate, Staffing{ObserverIDs: []uint64{7}})
	if err != nil {
		t.Fatalf("CheckEvent: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("edited event constrained itself: %+v", res)
	}
}

func TestCheckEventAggregatesDefaultedPairs(t *testing.T) {
	g := travel.NewGraph() // nothing recorded, everything defaults
	observers := map[uint64][]travel.Assignment{
		7: {{EventID: 3, CityID: 2, StartsAt: ts(t, "2025-01-01 02:00")}},
	}
	units := map[uint64][]travel.Assignment{
		40: {{EventID: 4, CityID: 2, StartsAt: ts(t, "2025-01-01 03:00")}},
	}
	eng := setupEngine(t, g, observers, units, 5)

	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	res, err := eng.CheckEvent(context.Background(), candidate, Staffing{ObserverIDs: []uint64{7}, UnitIDs: []uint64{40}})
	if err != nil {
		t.Fatalf("CheckEvent: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("10h and 9h gaps against a 5h default reported infeasible: %+v", res)
	}
	// Both resources defaulted on the same pair; it is reported once.
	if len(res.Defaulted) != 1 || res.Defaulted[0] != (travel.Pair{A: 1, B: 2}) {
		t.Fatalf("defaulted = %v; want [{1 2}] deduplicated", res.Defaulted)
	}
}

func TestCheckEventPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("db down")
	src := &MockAssignmentSource{
		AssignmentsForObserverFunc: func(ctx context.Context, id, exclude uint64) ([]travel.Assignment, error) {
			return nil, boom
		},
	}
	eng := NewEngine(src, &MockDistanceSource{}, 5)

	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	if _, err := eng.CheckEvent(context.Background(), candidate, Staffing{ObserverIDs: []uint64{7}}); !errors.Is(err, boom) {
		t.Fatalf("err = %v; want wrapped source error", err)
	}
}

func TestCheckEventEmptyStaffing(t *testing.T) {
	eng := NewEngine(&MockAssignmentSource{}, &MockDistanceSource{}, 5)
	candidate := travel.Assignment{EventID: 10, CityID: 1, StartsAt: ts(t, "2025-01-01 12:00")}
	res, err := eng.CheckEvent(context.Background(), candidate, Staffing{})
	if err != nil {
		t.Fatalf("CheckEvent: %v", err)
	}
	if !res.Feasible {
		t.Fatal("unstaffed event reported infeasible")
	}
}
