package handler

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/config"
	"github.com/Hazem7575/alamiya-sub001/internal/queue"
	"github.com/Hazem7575/alamiya-sub001/internal/repository"
	"github.com/Hazem7575/alamiya-sub001/internal/scheduling"
	activity_publisher "github.com/Hazem7575/alamiya-sub001/internal/service"
)

// AdminHandler bundles repositories for scheduling administration endpoints.
type AdminHandler struct {
	Cfg        config.Config
	Cities     *repository.CityRepo
	Distances  *repository.DistanceRepo
	Venues     *repository.VenueRepo
	Observers  *repository.ObserverRepo
	Units      *repository.UnitRepo
	EventTypes *repository.EventTypeRepo
	Events     *repository.EventRepo
	Activity   *repository.ActivityRepo
	Engine     *scheduling.Engine
}

func NewAdminHandler(
	cfg config.Config,
	cities *repository.CityRepo,
	distances *repository.DistanceRepo,
	venues *repository.VenueRepo,
	observers *repository.ObserverRepo,
	units *repository.UnitRepo,
	eventTypes *repository.EventTypeRepo,
	events *repository.EventRepo,
	activity *repository.ActivityRepo,
	engine *scheduling.Engine,
) *AdminHandler {
	return &AdminHandler{
		Cfg:        cfg,
		Cities:     cities,
		Distances:  distances,
		Venues:     venues,
		Observers:  observers,
		Units:      units,
		EventTypes: eventTypes,
		Events:     events,
		Activity:   activity,
		Engine:     engine,
	}
}

// getUserID reads the authenticated user id placed in context by the JWT
// middleware. The claim may arrive as either type depending on how the
// token was parsed.
func getUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return v
	case float64:
		return uint64(v)
	default:
		return 0
	}
}

// parseID reads a numeric path param.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// combineDateTime joins a calendar date and a wall-clock time into a single
// UTC instant. Events are stored and compared as instants so travel windows
// across midnight come out right.
func combineDateTime(date, clock string) (time.Time, error) {
	s := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// logActivity records an audit entry. The DB insert is the source of truth;
// the queue publish fans the same entry out to the activity consumer. Both
// are best-effort and never fail the request.
func (h *AdminHandler) logActivity(ctx context.Context, userID uint64, action, entityType string, entityID uint64, description string) {
	entry := &repository.ActivityLog{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
	}
	if err := h.Activity.Insert(ctx, entry); err != nil {
		log.Printf("[activity] insert failed: %v", err)
	}
	if err := activity_publisher.PublishActivity(ctx, queue.NewActivityEvent(userID, action, entityType, entityID, description)); err != nil {
		log.Printf("[activity] publish failed: %v", err)
	}
}
