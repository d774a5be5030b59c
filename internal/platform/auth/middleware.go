package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	rollNoKey contextKey = "roll_no"
	roleKey   contextKey = "role"
	nameKey   contextKey = "name"
)

// Middleware verifies the Authorization bearer header and attaches the
// caller's identity (roll number, role, display name) to the request context.
func Middleware(issuer *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, rollNoKey, claims.Subject)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			ctx = context.WithValue(ctx, nameKey, claims.Name)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func RollNoFromContext(ctx context.Context) string {
	rollNo, _ := ctx.Value(rollNoKey).(string)
	return rollNo
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

func NameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(nameKey).(string)
	return name
}

// WithIdentity returns a context carrying the given identity. Test helper for
// exercising services and handlers without the HTTP middleware.
func WithIdentity(ctx context.Context, rollNo, role string) context.Context {
	ctx = context.WithValue(ctx, rollNoKey, rollNo)
	return context.WithValue(ctx, roleKey, role)
}
