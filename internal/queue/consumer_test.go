package queue

import (
	"strings"
	"testing"
	"time"
)

func TestNewActivityEventStampsOccurredAt(t *testing.T) {
	ev := NewActivityEvent(3, "rejected", "event", 41, "cannot make it")
	if ev.UserID != 3 || ev.Action != "rejected" || ev.EntityType != "event" || ev.EntityID != 41 {
		t.Fatalf("fields not carried: %+v", ev)
	}
	stamped, err := time.Parse(TimeLayout, ev.OccurredAt)
	if err != nil {
		t.Fatalf("OccurredAt %q does not match layout %q: %v", ev.OccurredAt, TimeLayout, err)
	}
	if d := time.Since(stamped); d < 0 || d > time.Minute {
		t.Fatalf("OccurredAt %q not a recent UTC timestamp", ev.OccurredAt)
	}
}

func TestFormatActivityLine(t *testing.T) {
	ev := ActivityEvent{
		UserID:      3,
		Action:      "rejected",
		EntityType:  "event",
		EntityID:    41,
		Description: "travel time insufficient: required 5.0h, available 3.0h",
		OccurredAt:  "2025-01-01 12:00:00",
	}
	line := FormatActivityLine(ev)
	if !strings.HasPrefix(line, "[2025-01-01 12:00:00] event rejected") {
		t.Fatalf("line prefix wrong: %q", line)
	}
	for _, part := range []string{"user_id=3", "event_id=41", "travel time insufficient"} {
		if !strings.Contains(line, part) {
			t.Fatalf("line %q missing %q", line, part)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("line not newline-terminated: %q", line)
	}
}
