package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/repository"
	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

// UpsertDistance handles PUT /v1/admin/distances. The pair is unordered:
// (a,b) and (b,a) address the same edge.
func (h *AdminHandler) UpsertDistance(c echo.Context) error {
	var req struct {
		CityAID         uint64  `json:"city_a_id"`
		CityBID         uint64  `json:"city_b_id"`
		TravelTimeHours float64 `json:"travel_time_hours"`
		Notes           string  `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CityAID == 0 || req.CityBID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city_a_id and city_b_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Both endpoints must exist before an edge can join them.
	for _, id := range []uint64{req.CityAID, req.CityBID} {
		if _, err := h.Cities.GetByID(ctx, id); err != nil {
			if err == repository.ErrCityNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("city %d not found", id)})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup city failed"})
		}
	}

	var notes sql.NullString
	if s := strings.TrimSpace(req.Notes); s != "" {
		notes = sql.NullString{String: s, Valid: true}
	}

	d, err := h.Distances.Upsert(ctx, req.CityAID, req.CityBID, req.TravelTimeHours, notes)
	if err != nil {
		switch {
		case errors.Is(err, travel.ErrSelfLoop):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot set a distance from a city to itself"})
		case errors.Is(err, travel.ErrNegativeHours):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "travel_time_hours must be >= 0"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save distance failed"})
		}
	}
	h.logActivity(ctx, getUserID(c), "updated", "distance", d.ID,
		fmt.Sprintf("distance %d-%d set to %.2fh", d.CityAID, d.CityBID, d.TravelTimeHours))
	return c.JSON(http.StatusOK, d)
}

// ListDistances handles GET /v1/admin/distances.
func (h *AdminHandler) ListDistances(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Distances.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list distances failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetDistance handles GET /v1/admin/distances/:a/:b.
func (h *AdminHandler) GetDistance(c echo.Context) error {
	a, okA := parseID(c, "a")
	b, okB := parseID(c, "b")
	if !okA || !okB {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city ids"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Distances.GetByPair(ctx, a, b)
	if err != nil {
		if err == repository.ErrDistanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no distance recorded for this pair"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get distance failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// MissingDistances handles GET /v1/admin/distances/missing: an audit of
// active-city pairs with no recorded edge.
func (h *AdminHandler) MissingDistances(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ids, err := h.Cities.ActiveIDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cities failed"})
	}
	g, err := h.Distances.LoadGraph(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load distances failed"})
	}

	missing := g.FindMissingPairs(ids)
	type pairOut struct {
		CityAID uint64 `json:"city_a_id"`
		CityBID uint64 `json:"city_b_id"`
	}
	out := make([]pairOut, 0, len(missing))
	for _, p := range missing {
		out = append(out, pairOut{CityAID: p.A, CityBID: p.B})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"cities":        len(ids),
		"missing_count": len(out),
		"missing":       out,
	})
}

// FillMissingDistances handles POST /v1/admin/distances/fill-missing:
// inserts the configured default hours for every active-city pair that has
// no edge. Existing edges are never touched, so repeating the call is a
// no-op.
func (h *AdminHandler) FillMissingDistances(c echo.Context) error {
	var req struct {
		Hours *float64 `json:"hours"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hours := h.Cfg.DefaultTravelHours
	if req.Hours != nil {
		if *req.Hours < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must be >= 0"})
		}
		hours = *req.Hours
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	ids, err := h.Cities.ActiveIDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cities failed"})
	}
	g, err := h.Distances.LoadGraph(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load distances failed"})
	}
	missing := g.FindMissingPairs(ids)
	if len(missing) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"created": 0})
	}

	created, err := h.Distances.BulkInsertDefaults(ctx, missing, hours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fill distances failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "distance", 0,
		fmt.Sprintf("filled %d missing distances with %.2fh", created, hours))
	return c.JSON(http.StatusOK, echo.Map{"created": created, "hours": hours})
}

// DeleteDistance handles DELETE /v1/admin/distances/:a/:b.
func (h *AdminHandler) DeleteDistance(c echo.Context) error {
	a, okA := parseID(c, "a")
	b, okB := parseID(c, "b")
	if !okA || !okB {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city ids"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Distances.Delete(ctx, a, b); err != nil {
		if err == repository.ErrDistanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no distance recorded for this pair"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete distance failed"})
	}
	h.logActivity(ctx, getUserID(c), "deleted", "distance", 0, fmt.Sprintf("distance %d-%d deleted", a, b))
	return c.NoContent(http.StatusNoContent)
}
