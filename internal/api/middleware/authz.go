package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cydea/vulnbank/internal/core/domain"
)

// RequireAuth rejects anonymous callers with 401. It runs after AuthContext
// and before any handler state change.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c).IsAnonymous() {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects callers without the ADMIN role: anonymous with 401,
// authenticated non-admins with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := IdentityFrom(c)
			if ident.IsAnonymous() {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if ident.Role != domain.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}
