// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// TimeLayout is the wall-clock format used for OccurredAt in queue payloads
// and in the lines the consumer writes to the activity log.
const TimeLayout = "2006-01-02 15:04:05"

// ActivityEvent is published whenever an admin mutation succeeds, and also
// when an event write is rejected by the travel feasibility check. It
// carries enough context for downstream consumers to log or notify without
// querying the primary database.
type ActivityEvent struct {
	UserID      uint64 `json:"user_id"`
	Action      string `json:"action"`      // created | updated | deleted | rejected
	EntityType  string `json:"entity_type"` // city | venue | observer | unit | event_type | event | distance
	EntityID    uint64 `json:"entity_id"`
	Description string `json:"description"`
	OccurredAt  string `json:"occurred_at"`
}

// NewActivityEvent builds an ActivityEvent stamped with the current UTC
// time in TimeLayout, so publishers cannot disagree on the format.
func NewActivityEvent(userID uint64, action, entityType string, entityID uint64, description string) ActivityEvent {
	return ActivityEvent{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		OccurredAt:  time.Now().UTC().Format(TimeLayout),
	}
}
