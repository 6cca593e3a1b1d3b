package travel

import (
	"errors"
	"testing"
)

func TestTravelTimeSymmetry(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 1.5); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	ab, ok := g.TravelTime(1, 2)
	if !ok || ab != 1.5 {
		t.Fatalf("TravelTime(1,2) = %v,%v; want 1.5,true", ab, ok)
	}
	ba, ok := g.TravelTime(2, 1)
	if !ok || ba != 1.5 {
		t.Fatalf("TravelTime(2,1) = %v,%v; want 1.5,true", ba, ok)
	}
}

func TestUpsertEdgeRejectsSelfLoop(t *testing.T) {
	g := NewGraph()
	for _, hours := range []float64{0, 1, 99.5} {
		if err := g.UpsertEdge(7, 7, hours); !errors.Is(err, ErrSelfLoop) {
			t.Fatalf("UpsertEdge(7,7,%v) = %v; want ErrSelfLoop", hours, err)
		}
	}
	if g.Len() != 0 {
		t.Fatalf("edge set not empty after rejected self-loops: %d", g.Len())
	}
}

func TestUpsertEdgeRejectsNegativeHours(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, -0.5); !errors.Is(err, ErrNegativeHours) {
		t.Fatalf("UpsertEdge negative = %v; want ErrNegativeHours", err)
	}
}

func TestSameCityZeroCost(t *testing.T) {
	g := NewGraph()
	h, ok := g.TravelTime(42, 42)
	if !ok || h != 0 {
		t.Fatalf("TravelTime(42,42) = %v,%v; want 0,true without stored edge", h, ok)
	}
}

func TestUnknownPairNotFound(t *testing.T) {
	g := NewGraph()
	if _, ok := g.TravelTime(1, 2); ok {
		t.Fatal("TravelTime on empty graph reported ok")
	}
}

func TestUpsertReverseOrderUpdatesNotDuplicates(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 1.5); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := g.UpsertEdge(2, 1, 2.25); err != nil {
		t.Fatalf("reverse upsert: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("edge count = %d; want 1 after reverse upsert", g.Len())
	}
	h, _ := g.TravelTime(1, 2)
	if h != 2.25 {
		t.Fatalf("TravelTime after reverse update = %v; want 2.25", h)
	}
	if missing := g.FindMissingPairs([]uint64{1, 2}); len(missing) != 0 {
		t.Fatalf("FindMissingPairs reported %v for a covered pair", missing)
	}
}

func TestFindMissingPairs(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 3, 4); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	missing := g.FindMissingPairs([]uint64{3, 1, 2})
	want := []Pair{{1, 2}, {2, 3}}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v; want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("missing[%d] = %v; want %v", i, missing[i], want[i])
		}
	}
}

func TestFindMissingPairsIgnoresDuplicateIDs(t *testing.T) {
	g := NewGraph()
	missing := g.FindMissingPairs([]uint64{5, 5, 6})
	if len(missing) != 1 || missing[0] != (Pair{5, 6}) {
		t.Fatalf("missing = %v; want [{5 6}]", missing)
	}

	missing = g.FindMissingPairs([]uint64{6, 5, 6, 5, 7})
	want := []Pair{{5, 6}, {5, 7}, {6, 7}}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v; want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("missing[%d] = %v; want %v", i, missing[i], want[i])
		}
	}

	// The created list feeds bulk inserts, so it must be dedup'd too.
	created, err := g.FillMissingWithDefault([]uint64{5, 5, 6}, 5)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(created) != 1 || created[0] != (Pair{5, 6}) {
		t.Fatalf("created = %v; want [{5 6}]", created)
	}
}

func TestFillMissingWithDefaultIdempotent(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 1.5); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	cities := []uint64{1, 2, 3, 4}

	created, err := g.FillMissingWithDefault(cities, 5)
	if err != nil {
		t.Fatalf("first fill: %v", err)
	}
	if len(created) != 5 { // C(4,2)=6 pairs, one already present
		t.Fatalf("first fill created %d edges; want 5", len(created))
	}
	if g.Len() != 6 {
		t.Fatalf("edge count after fill = %d; want 6", g.Len())
	}

	again, err := g.FillMissingWithDefault(cities, 5)
	if err != nil {
		t.Fatalf("second fill: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second fill created %d edges; want 0", len(again))
	}
	// The pre-existing edge keeps its recorded hours.
	if h, _ := g.TravelTime(1, 2); h != 1.5 {
		t.Fatalf("fill overwrote existing edge: got %v; want 1.5", h)
	}
	if h, _ := g.TravelTime(3, 4); h != 5 {
		t.Fatalf("filled edge hours = %v; want 5", h)
	}
}

func TestFillMissingRejectsNegativeDefault(t *testing.T) {
	g := NewGraph()
	if _, err := g.FillMissingWithDefault([]uint64{1, 2}, -1); !errors.Is(err, ErrNegativeHours) {
		t.Fatalf("negative default fill = %v; want ErrNegativeHours", err)
	}
}

func TestEdgesReturnsCopy(t *testing.T) {
	g := NewGraph()
	if err := g.UpsertEdge(1, 2, 3); err != nil {
		t.Fatalf("UpsertEdge: %v", err)
	}
	snap := g.Edges()
	snap[Pair{1, 2}] = 99
	if h, _ := g.TravelTime(1, 2); h != 3 {
		t.Fatalf("mutating snapshot leaked into graph: %v", h)
	}
}
