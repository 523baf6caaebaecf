package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// LoggedIn admits any authenticated user holding one of the seeded roles.
func LoggedIn() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin, domain.RoleCustomer, domain.RoleModerator)
}

// AdministratorOnly admits Admin tokens only.
func AdministratorOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
