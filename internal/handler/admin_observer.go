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

// CreateObserver handles POST /v1/admin/observers.
func (h *AdminHandler) CreateObserver(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Code     string `json:"code"`
		Phone    string `json:"phone"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and code required"})
	}

	o := &repository.Observer{Name: req.Name, Code: req.Code, IsActive: true}
	if s := strings.TrimSpace(req.Phone); s != "" {
		o.Phone = sql.NullString{String: s, Valid: true}
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Observers.Create(ctx, o); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "observer code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create observer failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "observer", o.ID, fmt.Sprintf("observer %s created", o.Code))
	return c.JSON(http.StatusCreated, o)
}

// ListObservers handles GET /v1/observers. ?active=true limits to
// assignable observers.
func (h *AdminHandler) ListObservers(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Observers.List(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list observers failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetObserver handles GET /v1/observers/:id.
func (h *AdminHandler) GetObserver(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Observers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrObserverNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "observer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get observer failed"})
	}
	return c.JSON(http.StatusOK, o)
}

// UpdateObserver handles PUT /v1/admin/observers/:id.
func (h *AdminHandler) UpdateObserver(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Name     *string `json:"name"`
		Code     *string `json:"code"`
		Phone    *string `json:"phone"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Observers.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrObserverNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "observer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get observer failed"})
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		o.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code cannot be empty"})
		}
		o.Code = code
	}
	if req.Phone != nil {
		if s := strings.TrimSpace(*req.Phone); s != "" {
			o.Phone = sql.NullString{String: s, Valid: true}
		} else {
			o.Phone = sql.NullString{}
		}
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}

	if err := h.Observers.Update(ctx, o); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "observer code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update observer failed"})
	}
	h.logActivity(ctx, getUserID(c), "updated", "observer", o.ID, fmt.Sprintf("observer %s updated", o.Code))
	return c.JSON(http.StatusOK, o)
}

// DeleteObserver handles DELETE /v1/admin/observers/:id. Observers still
// assigned to events cannot be removed; deactivate them instead.
func (h *AdminHandler) DeleteObserver(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Observers.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrObserverNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "observer not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "observer is assigned to events"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete observer failed"})
		}
	}
	h.logActivity(ctx, getUserID(c), "deleted", "observer", id, fmt.Sprintf("observer %d deleted", id))
	return c.NoContent(http.StatusNoContent)
}
