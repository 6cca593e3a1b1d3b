package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Calendar handles GET /v1/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD with
// optional city_id, venue_id and event_type_id filters. This is the
// dashboard's main read path and sits behind the response cache.
func (h *AdminHandler) Calendar(c echo.Context) error {
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must not precede from"})
	}
	// The range is inclusive of the final day.
	toEnd := to.Add(24 * time.Hour)

	parseFilter := func(name string) (uint64, error) {
		s := c.QueryParam(name)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseUint(s, 10, 64)
	}
	cityID, err := parseFilter("city_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city_id"})
	}
	venueID, err := parseFilter("venue_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
	}
	eventTypeID, err := parseFilter("event_type_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_type_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	events, err := h.Events.ListRange(ctx, from.UTC(), toEnd.UTC(), cityID, venueID, eventTypeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"count":  len(events),
		"events": events,
	})
}
