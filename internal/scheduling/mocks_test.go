package scheduling

import (
	"context"

	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// MockAssignmentSource implements AssignmentSource with overridable funcs.
type MockAssignmentSource struct {
	AssignmentsForObserverFunc func(ctx context.Context, observerID, excludeEventID uint64) ([]travel.Assignment, error)
	AssignmentsForUnitFunc     func(ctx context.Context, unitID, excludeEventID uint64) ([]travel.Assignment, error)
}

func (m *MockAssignmentSource) AssignmentsForObserver(ctx context.Context, observerID, excludeEventID uint64) ([]travel.Assignment, error) {
	if m.AssignmentsForObserverFunc != nil {
		return m.AssignmentsForObserverFunc(ctx, observerID, excludeEventID)
	}
	return nil, nil
}

func (m *MockAssignmentSource) AssignmentsForUnit(ctx context.Context, unitID, excludeEventID uint64) ([]travel.Assignment, error) {
	if m.AssignmentsForUnitFunc != nil {
		return m.AssignmentsForUnitFunc(ctx, unitID, excludeEventID)
	}
	return nil, nil
}

// MockDistanceSource implements DistanceSource with an overridable func.
type MockDistanceSource struct {
	LoadGraphFunc func(ctx context.Context) (*travel.Graph, error)
}

func (m *MockDistanceSource) LoadGraph(ctx context.Context) (*travel.Graph, error) {
	if m.LoadGraphFunc != nil {
		return m.LoadGraphFunc(ctx)
	}
	return travel.NewGraph(), nil
}
