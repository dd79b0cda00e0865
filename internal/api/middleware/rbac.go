package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lecturerclaims/claims-system/internal/core/domain"
)

// RBAC enforces role-based access control. HR is an administrative role and
// passes every check.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles)+1)
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}
	allowed[string(domain.RoleHR)] = struct{}{}

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
