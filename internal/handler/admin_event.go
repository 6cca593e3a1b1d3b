package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/repository"
	"github.com/Hazem7575/alamiya-sub001/internal/scheduling"
	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// eventReq is the write payload for events. Date and time arrive separately
// the way the dashboard sends them and get combined into one UTC instant.
type eventReq struct {
	Title       string   `json:"title"`
	EventTypeID uint64   `json:"event_type_id"`
	VenueID     uint64   `json:"venue_id"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Time        string   `json:"time"` // HH:MM, 24h
	ObserverIDs []uint64 `json:"observer_ids"`
	UnitIDs     []uint64 `json:"unit_ids"`
}

// eventResp bundles the event row with its staffing for responses.
type eventResp struct {
	Event       *repository.Event `json:"event"`
	ObserverIDs []uint64          `json:"observer_ids"`
	UnitIDs     []uint64          `json:"unit_ids"`
}

// infeasibleResponse writes the 422 payload for a schedule that at least one
// assigned resource cannot make. The worst violation (largest shortfall) is
// promoted to the top-level fields; the full list rides along.
func infeasibleResponse(c echo.Context, res *scheduling.Result) error {
	worst := res.Worst()
	body := echo.Map{
		"error":      "assigned resources cannot reach this event in time",
		"error_type": "travel_time_insufficient",
		"violations": res.Violations,
	}
	if worst != nil {
		body["required_travel_hours"] = worst.Verdict.RequiredHours
		body["available_hours"] = worst.Verdict.AvailableHours
		if worst.Verdict.Conflict != nil {
			body["conflicting_assignment"] = worst.Verdict.Conflict
		}
	}
	return c.JSON(http.StatusUnprocessableEntity, body)
}

// validateStaffing confirms every referenced observer and unit exists and is
// active. Inactive resources stay attached to old events but cannot be added
// to new ones.
func (h *AdminHandler) validateStaffing(ctx context.Context, s scheduling.Staffing) (int, string) {
	seen := make(map[uint64]bool, len(s.ObserverIDs))
	for _, id := range s.ObserverIDs {
		if seen[id] {
			return http.StatusBadRequest, fmt.Sprintf("observer %d listed twice", id)
		}
		seen[id] = true
		o, err := h.Observers.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrObserverNotFound {
				return http.StatusNotFound, fmt.Sprintf("observer %d not found", id)
			}
			return http.StatusInternalServerError, "lookup observer failed"
		}
		if !o.IsActive {
			return http.StatusBadRequest, fmt.Sprintf("observer %s is inactive", o.Code)
		}
	}
	seen = make(map[uint64]bool, len(s.UnitIDs))
	for _, id := range s.UnitIDs {
		if seen[id] {
			return http.StatusBadRequest, fmt.Sprintf("unit %d listed twice", id)
		}
		seen[id] = true
		u, err := h.Units.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrUnitNotFound {
				return http.StatusNotFound, fmt.Sprintf("unit %d not found", id)
			}
			return http.StatusInternalServerError, "lookup unit failed"
		}
		if !u.IsActive {
			return http.StatusBadRequest, fmt.Sprintf("unit %s is inactive", u.Code)
		}
	}
	return 0, ""
}

func logDefaulted(pairs []travel.Pair) {
	for _, p := range pairs {
		log.Printf("[distances] no edge for cities %d-%d, default hours used", p.A, p.B)
	}
}

// CreateEvent handles POST /v1/events. The proposed staffing is checked for
// travel feasibility against every resource's other commitments; an
// infeasible schedule is rejected with 422 and nothing is written.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.EventTypeID == 0 || req.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, event_type_id and venue_id required"})
	}
	startsAt, err := combineDateTime(req.Date, req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD and time HH:MM"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if _, err := h.EventTypes.GetByID(ctx, req.EventTypeID); err != nil {
		if err == repository.ErrEventTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup event type failed"})
	}
	venue, err := h.Venues.GetByID(ctx, req.VenueID)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup venue failed"})
	}
	staffing := scheduling.Staffing{ObserverIDs: req.ObserverIDs, UnitIDs: req.UnitIDs}
	if code, msg := h.validateStaffing(ctx, staffing); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	candidate := travel.Assignment{
		CityID:   venue.CityID,
		CityName: venue.CityName,
		StartsAt: startsAt,
	}
	res, err := h.Engine.CheckEvent(ctx, candidate, staffing)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "feasibility check failed"})
	}
	logDefaulted(res.Defaulted)
	if !res.Feasible {
		h.logActivity(ctx, getUserID(c), "rejected", "event", 0,
			fmt.Sprintf("event %q rejected: %d resource(s) cannot make it", req.Title, len(res.Violations)))
		return infeasibleResponse(c, res)
	}

	ev := &repository.Event{
		Title:       req.Title,
		EventTypeID: req.EventTypeID,
		VenueID:     req.VenueID,
		StartsAt:    startsAt,
		Status:      repository.EventStatusScheduled,
		CreatedBy:   getUserID(c),
	}
	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = h.Events.CreateTx(ctx, tx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	if err = h.Events.ReplaceStaffingTx(ctx, tx, ev.ID, repository.EventStaffing{
		ObserverIDs: req.ObserverIDs,
		UnitIDs:     req.UnitIDs,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign staffing failed"})
	}
	if err = tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	full, err := h.Events.GetByID(ctx, ev.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload event failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "event", ev.ID,
		fmt.Sprintf("event %q scheduled at %s on %s", ev.Title, full.VenueName, ev.StartsAt.Format("2006-01-02 15:04")))
	return c.JSON(http.StatusCreated, eventResp{Event: full, ObserverIDs: req.ObserverIDs, UnitIDs: req.UnitIDs})
}

// UpdateEvent handles PUT /v1/events/:id. The date, time, venue and staffing
// may all change; the feasibility check reruns with the event's own previous
// slot excluded from everyone's commitments.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Title       *string  `json:"title"`
		EventTypeID *uint64  `json:"event_type_id"`
		VenueID     *uint64  `json:"venue_id"`
		Date        *string  `json:"date"`
		Time        *string  `json:"time"`
		Status      *string  `json:"status"`
		ObserverIDs []uint64 `json:"observer_ids"`
		UnitIDs     []uint64 `json:"unit_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get event failed"})
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		ev.Title = strings.TrimSpace(*req.Title)
	}
	if req.EventTypeID != nil {
		if _, err := h.EventTypes.GetByID(ctx, *req.EventTypeID); err != nil {
			if err == repository.ErrEventTypeNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "event type not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup event type failed"})
		}
		ev.EventTypeID = *req.EventTypeID
	}
	if req.VenueID != nil {
		ev.VenueID = *req.VenueID
	}
	venue, err := h.Venues.GetByID(ctx, ev.VenueID)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup venue failed"})
	}

	// Partial reschedules reuse the stored instant for the missing half.
	if req.Date != nil || req.Time != nil {
		date := ev.StartsAt.Format("2006-01-02")
		clock := ev.StartsAt.Format("15:04")
		if req.Date != nil {
			date = *req.Date
		}
		if req.Time != nil {
			clock = *req.Time
		}
		startsAt, err := combineDateTime(date, clock)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD and time HH:MM"})
		}
		ev.StartsAt = startsAt
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		switch status {
		case repository.EventStatusScheduled, repository.EventStatusCancelled, repository.EventStatusCompleted:
			ev.Status = status
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be SCHEDULED, CANCELLED or COMPLETED"})
		}
	}

	// Omitted staffing arrays keep the current assignment.
	current, err := h.Events.Staffing(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load staffing failed"})
	}
	observerIDs := current.ObserverIDs
	unitIDs := current.UnitIDs
	if req.ObserverIDs != nil {
		observerIDs = req.ObserverIDs
	}
	if req.UnitIDs != nil {
		unitIDs = req.UnitIDs
	}
	staffing := scheduling.Staffing{ObserverIDs: observerIDs, UnitIDs: unitIDs}
	if code, msg := h.validateStaffing(ctx, staffing); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	// A cancelled event frees its resources, so there is nothing to check.
	if ev.Status != repository.EventStatusCancelled {
		candidate := travel.Assignment{
			EventID:  id,
			CityID:   venue.CityID,
			CityName: venue.CityName,
			StartsAt: ev.StartsAt,
		}
		res, err := h.Engine.CheckEvent(ctx, candidate, staffing)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "feasibility check failed"})
		}
		logDefaulted(res.Defaulted)
		if !res.Feasible {
			h.logActivity(ctx, getUserID(c), "rejected", "event", id,
				fmt.Sprintf("event %q reschedule rejected: %d resource(s) cannot make it", ev.Title, len(res.Violations)))
			return infeasibleResponse(c, res)
		}
	}

	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = h.Events.UpdateTx(ctx, tx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	if err = h.Events.ReplaceStaffingTx(ctx, tx, id, repository.EventStaffing{
		ObserverIDs: observerIDs,
		UnitIDs:     unitIDs,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign staffing failed"})
	}
	if err = tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	full, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload event failed"})
	}
	h.logActivity(ctx, getUserID(c), "updated", "event", id, fmt.Sprintf("event %q updated", full.Title))
	return c.JSON(http.StatusOK, eventResp{Event: full, ObserverIDs: observerIDs, UnitIDs: unitIDs})
}

// GetEvent handles GET /v1/events/:id.
func (h *AdminHandler) GetEvent(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get event failed"})
	}
	staffing, err := h.Events.Staffing(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load staffing failed"})
	}
	return c.JSON(http.StatusOK, eventResp{Event: ev, ObserverIDs: staffing.ObserverIDs, UnitIDs: staffing.UnitIDs})
}

// DeleteEvent handles DELETE /v1/events/:id.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	h.logActivity(ctx, getUserID(c), "deleted", "event", id, fmt.Sprintf("event %d deleted", id))
	return c.NoContent(http.StatusNoContent)
}
