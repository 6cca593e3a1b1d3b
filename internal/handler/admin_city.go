package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/repository"
)

// CreateCity handles POST /v1/admin/cities.
func (h *AdminHandler) CreateCity(c echo.Context) error {
	var req struct {
		Name     string   `json:"name"`
		Country  string   `json:"country"`
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	city := &repository.City{
		Name:     req.Name,
		Country:  strings.TrimSpace(req.Country),
		IsActive: true,
	}
	if req.Lat != nil {
		city.Lat = sql.NullFloat64{Float64: *req.Lat, Valid: true}
	}
	if req.Lng != nil {
		city.Lng = sql.NullFloat64{Float64: *req.Lng, Valid: true}
	}
	if req.IsActive != nil {
		city.IsActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cities.Create(ctx, city); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "city name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create city failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "city", city.ID, fmt.Sprintf("city %q created", city.Name))
	return c.JSON(http.StatusCreated, city)
}

// ListCities handles GET /v1/cities. ?active=true limits to schedulable
// cities.
func (h *AdminHandler) ListCities(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cities, err := h.Cities.List(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cities failed"})
	}
	return c.JSON(http.StatusOK, cities)
}

// GetCity handles GET /v1/cities/:id.
func (h *AdminHandler) GetCity(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	city, err := h.Cities.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get city failed"})
	}
	return c.JSON(http.StatusOK, city)
}

// UpdateCity handles PUT /v1/admin/cities/:id. Omitted fields keep their
// current value.
func (h *AdminHandler) UpdateCity(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Name     *string  `json:"name"`
		Country  *string  `json:"country"`
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
		IsActive *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	city, err := h.Cities.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCityNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get city failed"})
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		city.Name = strings.TrimSpace(*req.Name)
	}
	if req.Country != nil {
		city.Country = strings.TrimSpace(*req.Country)
	}
	if req.Lat != nil {
		city.Lat = sql.NullFloat64{Float64: *req.Lat, Valid: true}
	}
	if req.Lng != nil {
		city.Lng = sql.NullFloat64{Float64: *req.Lng, Valid: true}
	}
	if req.IsActive != nil {
		city.IsActive = *req.IsActive
	}

	if err := h.Cities.Update(ctx, city); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "city name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update city failed"})
	}
	h.logActivity(ctx, getUserID(c), "updated", "city", city.ID, fmt.Sprintf("city %q updated", city.Name))
	return c.JSON(http.StatusOK, city)
}

// DeleteCity handles DELETE /v1/admin/cities/:id. Cities referenced by
// venues or distance edges cannot be removed.
func (h *AdminHandler) DeleteCity(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cities.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrCityNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "city is referenced by venues or distances"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete city failed"})
		}
	}
	h.logActivity(ctx, getUserID(c), "deleted", "city", id, fmt.Sprintf("city %d deleted", id))
	return c.NoContent(http.StatusNoContent)
}
