package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/repository"
)

// CreateVenue handles POST /v1/admin/venues.
func (h *AdminHandler) CreateVenue(c echo.Context) error {
	var req struct {
		CityID  uint64 `json:"city_id"`
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.CityID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city_id and name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Cities.GetByID(ctx, req.CityID); err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup city failed"})
	}

	v := &repository.Venue{CityID: req.CityID, Name: req.Name}
	if s := strings.TrimSpace(req.Address); s != "" {
		v.Address = sql.NullString{String: s, Valid: true}
	}
	if err := h.Venues.Create(ctx, v); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue already exists in this city"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "venue", v.ID, fmt.Sprintf("venue %q created", v.Name))
	return c.JSON(http.StatusCreated, v)
}

// ListVenues handles GET /v1/venues, optionally filtered with ?city_id=.
func (h *AdminHandler) ListVenues(c echo.Context) error {
	var cityID uint64
	if s := c.QueryParam("city_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city_id"})
		}
		cityID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venues, err := h.Venues.List(ctx, cityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list venues failed"})
	}
	return c.JSON(http.StatusOK, venues)
}

// GetVenue handles GET /v1/venues/:id.
func (h *AdminHandler) GetVenue(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get venue failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateVenue handles PUT /v1/admin/venues/:id.
func (h *AdminHandler) UpdateVenue(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		CityID  *uint64 `json:"city_id"`
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get venue failed"})
	}
	if req.CityID != nil {
		if _, err := h.Cities.GetByID(ctx, *req.CityID); err != nil {
			if err == repository.ErrCityNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup city failed"})
		}
		v.CityID = *req.CityID
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		v.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		if s := strings.TrimSpace(*req.Address); s != "" {
			v.Address = sql.NullString{String: s, Valid: true}
		} else {
			v.Address = sql.NullString{}
		}
	}

	if err := h.Venues.Update(ctx, v); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue already exists in this city"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update venue failed"})
	}
	h.logActivity(ctx, getUserID(c), "updated", "venue", v.ID, fmt.Sprintf("venue %q updated", v.Name))
	return c.JSON(http.StatusOK, v)
}

// DeleteVenue handles DELETE /v1/admin/venues/:id.
func (h *AdminHandler) DeleteVenue(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Venues.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrVenueNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue is referenced by events"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete venue failed"})
		}
	}
	h.logActivity(ctx, getUserID(c), "deleted", "venue", id, fmt.Sprintf("venue %d deleted", id))
	return c.NoContent(http.StatusNoContent)
}
