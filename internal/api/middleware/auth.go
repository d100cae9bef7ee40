package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

// Context keys set by the auth middlewares.
const (
	ClaimsKey = "claims"
	RoleKey   = "role"
)

// Auth validates the bearer access token and injects its claims into the
// context. Refresh tokens are rejected.
func Auth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearer(c)
			if err != nil {
				return err
			}
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			claims, err := issuer.Parse(raw, token.TypeAccess)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth injects claims when a valid access token is present and
// otherwise lets the request through as public.
func OptionalAuth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := bearer(c)
			if raw != "" {
				if claims, err := issuer.Parse(raw, token.TypeAccess); err == nil {
					setClaims(c, claims)
				}
			}
			return next(c)
		}
	}
}

// Claims returns the claims injected by Auth or OptionalAuth.
func Claims(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

// Role returns the caller's role, public when unauthenticated.
func Role(c echo.Context) domain.Role {
	if role, ok := c.Get(RoleKey).(domain.Role); ok && role != "" {
		return role
	}
	return domain.RolePublic
}

func setClaims(c echo.Context, claims *token.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(RoleKey, claims.Role)
}

// bearer extracts the token from the Authorization header. A missing header
// yields "" without error.
func bearer(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
