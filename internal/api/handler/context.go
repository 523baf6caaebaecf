package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ngcore/storefront-api/internal/api/middleware"
)

// ctxUser returns the authenticated username and role, empty when the route
// is not behind the Auth middleware.
func ctxUser(c echo.Context) (username, role string) {
	username, _ = c.Get(middleware.CtxUsername).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	return username, role
}
