package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that rejects callers whose role is not one
// of the listed roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := RoleFromContext(c.Request().Context())
			for _, required := range roles {
				if userRole == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequireSelfOrStaff returns middleware for routes carrying a roll-number
// path parameter: medical staff pass unconditionally, students only when the
// parameter matches their own roll number.
func RequireSelfOrStaff(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if RoleFromContext(ctx) == RoleStaff {
				return next(c)
			}
			if c.Param(param) == RollNoFromContext(ctx) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "access restricted to own records")
		}
	}
}
