package travel

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func riyadhJeddahGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 1.5); err != nil { // Riyadh(1) <-> Jeddah(2)
		t.Fatalf("UpsertEdge: %v", err)
	}
	return g
}

func TestCheckFeasibilityEnoughTime(t *testing.T) {
	g := riyadhJeddahGraph(t)
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-01 12:00")}
	existing := []Assignment{{EventID: 9, CityID: 2, StartsAt: at(t, "2025-01-01 10:00")}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if !v.Feasible {
		t.Fatalf("2h gap for a 1.5h trip reported infeasible: %+v", v)
	}
}

func TestCheckFeasibilityTooTight(t *testing.T) {
	g := riyadhJeddahGraph(t)
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-01 11:00")}
	existing := []Assignment{{EventID: 9, CityID: 2, StartsAt: at(t, "2025-01-01 10:00")}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if v.Feasible {
		t.Fatal("1h gap for a 1.5h trip reported feasible")
	}
	if v.RequiredHours != 1.5 || v.AvailableHours != 1 {
		t.Fatalf("verdict numbers = required %v available %v; want 1.5 and 1", v.RequiredHours, v.AvailableHours)
	}
	if v.Conflict == nil || v.Conflict.EventID != 9 {
		t.Fatalf("verdict conflict = %+v; want event 9", v.Conflict)
	}
}

func TestCheckFeasibilityExactBoundaryIsFeasible(t *testing.T) {
	g := riyadhJeddahGraph(t)
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-01 11:30")}
	existing := []Assignment{{EventID: 9, CityID: 2, StartsAt: at(t, "2025-01-01 10:00")}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if !v.Feasible {
		t.Fatal("delta exactly equal to travel time must be feasible (non-strict comparison)")
	}
}

func TestCheckFeasibilityDefaultHoursForUnknownPair(t *testing.T) {
	g := NewGraph() // no Riyadh(1)-Dammam(3) edge recorded
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-01 12:00")}
	existing := []Assignment{{EventID: 9, CityID: 3, StartsAt: at(t, "2025-01-01 09:00")}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if v.Feasible {
		t.Fatal("3h gap against a 5h default reported feasible")
	}
	if v.RequiredHours != 5 || v.AvailableHours != 3 {
		t.Fatalf("verdict numbers = required %v available %v; want 5 and 3", v.RequiredHours, v.AvailableHours)
	}
	if len(v.Defaulted) != 1 || v.Defaulted[0] != (Pair{1, 3}) {
		t.Fatalf("defaulted pairs = %v; want [{1 3}]", v.Defaulted)
	}
}

func TestCheckFeasibilitySameCitySameTime(t *testing.T) {
	g := NewGraph()
	when := at(t, "2025-01-01 10:00")
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: when}
	existing := []Assignment{{EventID: 9, CityID: 1, StartsAt: when}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	// Travel is trivially satisfied in the same city; double-booking is a
	// uniqueness constraint enforced elsewhere, not a travel question.
	if !v.Feasible {
		t.Fatal("same-city same-time reported infeasible by the travel check")
	}
}

func TestCheckFeasibilityCrossesDayBoundary(t *testing.T) {
	g := riyadhJeddahGraph(t)
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-02 01:00")}
	existing := []Assignment{{EventID: 9, CityID: 2, StartsAt: at(t, "2025-01-01 23:00")}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if !v.Feasible {
		t.Fatal("2h overnight gap for a 1.5h trip reported infeasible")
	}
}

func TestCheckFeasibilityEvaluatesAllAndCitesWorst(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 3); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	if err := g.UpsertEdge(1, 3, 6); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-01 12:00")}
	existing := []Assignment{
		// 2h before in city 2, 3h trip: shortfall 1h.
		{EventID: 8, CityID: 2, StartsAt: at(t, "2025-01-01 10:00")},
		// 2h after in city 3, 6h trip: shortfall 4h, the worst.
		{EventID: 9, CityID: 3, StartsAt: at(t, "2025-01-01 14:00")},
	}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if v.Feasible {
		t.Fatal("two violated constraints reported feasible")
	}
	if v.Conflict == nil || v.Conflict.EventID != 9 {
		t.Fatalf("cited conflict = %+v; want the worst shortfall (event 9)", v.Conflict)
	}
	if v.RequiredHours != 6 || v.AvailableHours != 2 {
		t.Fatalf("verdict numbers = required %v available %v; want 6 and 2", v.RequiredHours, v.AvailableHours)
	}
}

func TestCheckFeasibilityOneBindingConstraintAmongMany(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 1); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	if err := g.UpsertEdge(1, 3, 6); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	candidate := Assignment{EventID: 10, CityID: 1, StartsAt: at(t, "2025-01-01 12:00")}
	existing := []Assignment{
		{EventID: 8, CityID: 2, StartsAt: at(t, "2025-01-01 10:00")}, // fine alone
		{EventID: 9, CityID: 3, StartsAt: at(t, "2025-01-01 15:00")}, // violated
	}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if v.Feasible {
		t.Fatal("violated second constraint not detected")
	}
	if v.Conflict == nil || v.Conflict.EventID != 9 {
		t.Fatalf("cited conflict = %+v; want event 9", v.Conflict)
	}
}

func TestCheckFeasibilityInvalidInputs(t *testing.T) {
	g := NewGraph()
	ok := Assignment{EventID: 1, CityID: 1, StartsAt: at(t, "2025-01-01 10:00")}

	cases := []struct {
		name      string
		candidate Assignment
		existing  []Assignment
		def       float64
	}{
		{"missing city", Assignment{EventID: 1, StartsAt: ok.StartsAt}, nil, 5},
		{"missing time", Assignment{EventID: 1, CityID: 1}, nil, 5},
		{"bad existing", ok, []Assignment{{EventID: 2, CityID: 0, StartsAt: ok.StartsAt}}, 5},
		{"negative default", ok, nil, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := CheckFeasibility(tc.candidate, tc.existing, g, tc.def); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v; want ErrInvalidInput", err)
			}
		})
	}
}

func TestCheckFeasibilityNoExistingAssignments(t *testing.T) {
	g := NewGraph()
	v, err := CheckFeasibility(Assignment{EventID: 1, CityID: 1, StartsAt: at(t, "2025-01-01 10:00")}, nil, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if !v.Feasible {
		t.Fatal("empty schedule reported infeasible")
	}
}

func TestVerdictJSONKeepsZeroHourFields(t *testing.T) {
	g := riyadhJeddahGraph(t)
	candidate := Assignment{CityID: 1, CityName: "Riyadh", StartsAt: at(t, "2026-03-15 12:00")}
	existing := []Assignment{{EventID: 9, CityID: 2, CityName: "Jeddah", StartsAt: at(t, "2026-03-15 12:00")}}

	v, err := CheckFeasibility(candidate, existing, g, 5)
	if err != nil {
		t.Fatalf("CheckFeasibility: %v", err)
	}
	if v.Feasible || v.AvailableHours != 0 {
		t.Fatalf("verdict = %+v; want infeasible with zero available hours", v)
	}

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"required_travel_hours"`, `"available_hours":0`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("verdict JSON %s missing %s", b, key)
		}
	}
}
