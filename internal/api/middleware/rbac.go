package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

// RBAC enforces role-based access control on the resolved session role.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[State(c).Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
