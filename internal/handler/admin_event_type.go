package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/repository"
)

// CreateEventType handles POST /v1/admin/event-types.
func (h *AdminHandler) CreateEventType(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := &repository.EventType{Name: req.Name, Code: req.Code}
	if err := h.EventTypes.Create(ctx, t); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "event type code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event type failed"})
	}
	h.logActivity(ctx, getUserID(c), "created", "event_type", t.ID, fmt.Sprintf("event type %s created", t.Code))
	return c.JSON(http.StatusCreated, t)
}

// ListEventTypes handles GET /v1/event-types.
func (h *AdminHandler) ListEventTypes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.EventTypes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list event types failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateEventType handles PUT /v1/admin/event-types/:id.
func (h *AdminHandler) UpdateEventType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Name *string `json:"name"`
		Code *string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.EventTypes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get event type failed"})
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "code cannot be empty"})
		}
		t.Code = code
	}

	if err := h.EventTypes.Update(ctx, t); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "event type code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event type failed"})
	}
	h.logActivity(ctx, getUserID(c), "updated", "event_type", t.ID, fmt.Sprintf("event type %s updated", t.Code))
	return c.JSON(http.StatusOK, t)
}

// DeleteEventType handles DELETE /v1/admin/event-types/:id.
func (h *AdminHandler) DeleteEventType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.EventTypes.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrEventTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event type not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "event type is referenced by events"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event type failed"})
		}
	}
	h.logActivity(ctx, getUserID(c), "deleted", "event_type", id, fmt.Sprintf("event type %d deleted", id))
	return c.NoContent(http.StatusNoContent)
}
