package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/Hazem7575/alamiya-sub001/internal/config"
	"github.com/Hazem7575/alamiya-sub001/internal/handler"    // import the handlers that implement business logic
	"github.com/Hazem7575/alamiya-sub001/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh variants.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout deliberately skips JWT auth: a refresh token in the body is
	// enough to end that session, and a bare bearer token revokes all of
	// the user's sessions.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleScheduler, middleware.RoleViewer))
	auth.GET("/me", a.Me)

	// Same handler at the top level so clients can call either path with a
	// refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}

// RegisterScheduling registers the scheduling API. Three tiers:
//
//	viewer  — read-only calendar and reference data, any authenticated role
//	writer  — event create/update/delete, ADMIN and SCHEDULER
//	admin   — reference-data management, distances and the audit trail, ADMIN only
//
// The calendar and reference-data reads sit behind the Redis response cache;
// the whole /v1 surface sits behind the token-bucket rate limiter.
func RegisterScheduling(e *echo.Echo, h *handler.AdminHandler, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	viewer := e.Group("/v1", rl)
	viewer.Use(middleware.JWTAuth(h.Cfg.JWTSecret))
	viewer.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleScheduler, middleware.RoleViewer))

	viewer.GET("/calendar", h.Calendar, cache)
	viewer.GET("/cities", h.ListCities, cache)
	viewer.GET("/cities/:id", h.GetCity)
	viewer.GET("/venues", h.ListVenues, cache)
	viewer.GET("/venues/:id", h.GetVenue)
	viewer.GET("/observers", h.ListObservers)
	viewer.GET("/observers/:id", h.GetObserver)
	viewer.GET("/units", h.ListUnits)
	viewer.GET("/units/:id", h.GetUnit)
	viewer.GET("/event-types", h.ListEventTypes)
	viewer.GET("/events/:id", h.GetEvent)

	writer := e.Group("/v1", rl)
	writer.Use(middleware.JWTAuth(h.Cfg.JWTSecret))
	writer.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleScheduler))

	writer.POST("/events", h.CreateEvent)
	writer.PUT("/events/:id", h.UpdateEvent)
	writer.DELETE("/events/:id", h.DeleteEvent)

	admin := e.Group("/v1/admin", rl)
	admin.Use(middleware.JWTAuth(h.Cfg.JWTSecret))
	admin.Use(middleware.RequireRole(middleware.RoleAdmin))

	admin.POST("/cities", h.CreateCity)
	admin.PUT("/cities/:id", h.UpdateCity)
	admin.DELETE("/cities/:id", h.DeleteCity)

	admin.PUT("/distances", h.UpsertDistance)
	admin.GET("/distances", h.ListDistances)
	// Static segment must be registered before the :a/:b wildcard pair.
	admin.GET("/distances/missing", h.MissingDistances)
	admin.POST("/distances/fill-missing", h.FillMissingDistances)
	admin.GET("/distances/:a/:b", h.GetDistance)
	admin.DELETE("/distances/:a/:b", h.DeleteDistance)

	admin.POST("/venues", h.CreateVenue)
	admin.PUT("/venues/:id", h.UpdateVenue)
	admin.DELETE("/venues/:id", h.DeleteVenue)

	admin.POST("/observers", h.CreateObserver)
	admin.PUT("/observers/:id", h.UpdateObserver)
	admin.DELETE("/observers/:id", h.DeleteObserver)

	admin.POST("/units", h.CreateUnit)
	admin.PUT("/units/:id", h.UpdateUnit)
	admin.DELETE("/units/:id", h.DeleteUnit)

	admin.POST("/event-types", h.CreateEventType)
	admin.PUT("/event-types/:id", h.UpdateEventType)
	admin.DELETE("/event-types/:id", h.DeleteEventType)

	admin.GET("/activity", h.ListActivity)
}
