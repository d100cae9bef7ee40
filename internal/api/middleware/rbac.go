package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/core/domain"
)

var errForbidden = echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")

// RBAC admits only the listed roles.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[Role(c)]; !ok {
				return errForbidden
			}
			return next(c)
		}
	}
}

// RequirePermission admits roles granting every permission in perms.
func RequirePermission(perms ...domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Role(c).HasAllPermissions(perms...) {
				return errForbidden
			}
			return next(c)
		}
	}
}

// MinimumRole admits roles at or above minimum in the hierarchy.
func MinimumRole(minimum domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Role(c).HasMinimumRole(minimum) {
				return errForbidden
			}
			return next(c)
		}
	}
}
