package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes with a bare 200 "ok". It intentionally
// touches neither MySQL nor Redis so a degraded dependency does not take
// the instance out of rotation.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
