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

// CreateUnit handles POST /v1/admin/units.
func (h *AdminHandler) CreateUnit(c echo.Context) error {
	var req struct {
		Code        string `json:"code"`
		UnitType    string `json:"unit_type"` // SNG | GENERATOR
		Description string `json:"description"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	u := &repository.Unit{
		Code:     req.Code,
		UnitType: strings.ToUpper(strings.TrimSpace(req.UnitType)),
		IsActive: true,
	}
	if s := strings.TrimSpace(req.Description); s != "" {
		u.Description = sql.NullString{String: s, Valid: true}
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Units.Create(ctx, u); err != nil {
		if err == repository.ErrBadUnitType {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unit_type must be SNG or GENERATOR"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unit code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create unit failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "unit", u.ID, fmt.Sprintf("unit %s (%s) created", u.Code, u.UnitType))
	return c.JSON(http.StatusCreated, u)
}

// ListUnits handles GET /v1/units with optional ?type= and ?active=true.
func (h *AdminHandler) ListUnits(c echo.Context) error {
	unitType := strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))
	if unitType != "" && unitType != repository.UnitTypeSNG && unitType != repository.UnitTypeGenerator {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be SNG or GENERATOR"})
	}
	activeOnly := c.QueryParam("active") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Units.List(ctx, unitType, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list units failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetUnit handles GET /v1/units/:id.
func (h *AdminHandler) GetUnit(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Units.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUnitNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get unit failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateUnit handles PUT /v1/admin/units/:id. The unit type is fixed at
// creation; repurposing a truck means retiring it and creating a new unit.
func (h *AdminHandler) UpdateUnit(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Code        *string `json:"code"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Units.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUnitNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get unit failed"})
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code cannot be empty"})
		}
		u.Code = code
	}
	if req.Description != nil {
		if s := strings.TrimSpace(*req.Description); s != "" {
			u.Description = sql.NullString{String: s, Valid: true}
		} else {
			u.Description = sql.NullString{}
		}
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := h.Units.Update(ctx, u); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unit code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update unit failed"})
	}
	h.logActivity(ctx, getUserID(c), "updated", "unit", u.ID, fmt.Sprintf("unit %s updated", u.Code))
	return c.JSON(http.StatusOK, u)
}

// DeleteUnit handles DELETE /v1/admin/units/:id.
func (h *AdminHandler) DeleteUnit(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Units.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrUnitNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "unit is assigned to events"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete unit failed"})
		}
	}
	h.logActivity(ctx, getUserID(c), "deleted", "unit", id, fmt.Sprintf("unit %d deleted", id))
	return c.NoContent(http.StatusNoContent)
}
