package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo framework
)

// Health is a liveness probe.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
