package scheduling

import (
	"context"

	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// AssignmentSource loads a staffing resource's other scheduled commitments,
// excluding the event currently being created or edited. The event
// repository satisfies this in production; tests supply mocks.
type AssignmentSource interface {
	AssignmentsForObserver(ctx context.Context, observerID, excludeEventID uint64) ([]travel.Assignment, error)
	AssignmentsForUnit(ctx context.Context, unitID, excludeEventID uint64) ([]travel.Assignment, error)
}

// DistanceSource loads a snapshot of the city-distance graph. One snapshot
// is taken per check so every resource is evaluated against the same data.
type DistanceSource interface {
	LoadGraph(ctx context.Context) (*travel.Graph, error)
}
