// Package travel holds the city-distance graph and the travel-time
// feasibility checker used by the event scheduling workflow. Everything in
// this package is pure and in-memory: callers load the data (city list,
// stored distances, a resource's other assignments) and hand it in, which
// keeps the package trivially unit-testable and free of I/O.
package travel

import (
	"errors"
	"sort"
)

// ErrSelfLoop is returned when an edge would pair a city with itself.
// Self-loops are rejected, never silently ignored.
var ErrSelfLoop = errors.New("invalid edge: city paired with itself")

// ErrNegativeHours is returned when a travel time below zero is supplied.
var ErrNegativeHours = errors.New("invalid edge: travel time must be >= 0")

// Pair is the canonical form of an unordered city pair. A is always the
// smaller id, so (riyadh, jeddah) and (jeddah, riyadh) map to the same Pair.
type Pair struct {
	A uint64 // smaller city id
	B uint64 // larger city id
}

// canonical orders two city ids into a Pair. Callers must reject a == b
// before calling; canonical itself does not validate.
func canonical(a, b uint64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Graph is an undirected weighted graph over cities where the edge weight is
// the travel time in hours between the two cities. The edge set never holds
// two entries for the same unordered pair: UpsertEdge canonicalizes before
// touching the map, so inserting (A,B) after (B,A) updates rather than
// duplicates.
type Graph struct {
	edges map[Pair]float64
}

// NewGraph returns an empty distance graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[Pair]float64)}
}

// TravelTime answers "how many hours between city a and city b?". The lookup
// is order-independent. When a == b it reports 0 hours by definition (same
// city, no travel) without requiring a stored edge. When the cities differ
// and no edge exists, ok is false and the caller decides the policy
// (typically falling back to a configured default).
func (g *Graph) TravelTime(a, b uint64) (hours float64, ok bool) {
	if a == b {
		return 0, true
	}
	hours, ok = g.edges[canonical(a, b)]
	return hours, ok
}

// UpsertEdge records the travel time between two distinct cities. The pair
// is canonicalized first, so a second call with the ids swapped updates the
// existing edge instead of creating a reverse duplicate.
func (g *Graph) UpsertEdge(a, b uint64, hours float64) error {
	if a == b {
		return ErrSelfLoop
	}
	if hours < 0 {
		return ErrNegativeHours
	}
	g.edges[canonical(a, b)] = hours
	return nil
}

// HasEdge reports whether an edge is stored for the unordered pair (a, b).
func (g *Graph) HasEdge(a, b uint64) bool {
	if a == b {
		return false
	}
	_, ok := g.edges[canonical(a, b)]
	return ok
}

// Len returns the number of stored edges.
func (g *Graph) Len() int {
	return len(g.edges)
}

// FindMissingPairs returns every unordered pair of distinct cities from the
// given list that has no stored edge. It is used by the data-completeness
// audit and the bulk-fill tool. The enumeration is O(n^2) over the city
// list with an O(1) existence check per pair, which is cheap for the city
// counts this system sees (hundreds at most). The result is sorted by
// (A, B) so output is stable for display and tests.
func (g *Graph) FindMissingPairs(cityIDs []uint64) []Pair {
	// Dedup the input first: a repeated id must not yield the same pair
	// twice, or the bulk-fill caller would insert duplicate rows.
	seen := make(map[uint64]bool, len(cityIDs))
	ids := make([]uint64, 0, len(cityIDs))
	for _, id := range cityIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var missing []Pair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			p := canonical(ids[i], ids[j])
			if _, ok := g.edges[p]; !ok {
				missing = append(missing, p)
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].A != missing[j].A {
			return missing[i].A < missing[j].A
		}
		return missing[i].B < missing[j].B
	})
	return missing
}

// FillMissingWithDefault creates an edge with defaultHours for every pair
// reported missing by FindMissingPairs. It is idempotent: re-running after a
// partial fill only creates the still-missing edges and never overwrites an
// existing one. The pairs actually created are returned so the caller can
// persist exactly those rows.
func (g *Graph) FillMissingWithDefault(cityIDs []uint64, defaultHours float64) ([]Pair, error) {
	if defaultHours < 0 {
		return nil, ErrNegativeHours
	}
	missing := g.FindMissingPairs(cityIDs)
	for _, p := range missing {
		g.edges[p] = defaultHours
	}
	return missing, nil
}

// Edges returns a copy of the stored edge set keyed by canonical pair.
// Mutating the returned map does not affect the graph.
func (g *Graph) Edges() map[Pair]float64 {
	out := make(map[Pair]float64, len(g.edges))
	for p, h := range g.edges {
		out[p] = h
	}
	return out
}
