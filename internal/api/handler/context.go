package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/middleware"
)

// ctxUserID returns the authenticated user's ID. Presence of the claims
// proves the Auth middleware ran; without them the route was wired wrong
// or the caller is anonymous, either way a 401.
func ctxUserID(c echo.Context) (string, error) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.UserID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims.UserID, nil
}

// visitorKey identifies a reader for view deduplication: the user ID when
// signed in, the client address otherwise.
func visitorKey(c echo.Context) string {
	if claims, ok := middleware.Claims(c); ok && claims.UserID != "" {
		return "user:" + claims.UserID
	}
	return "ip:" + c.RealIP()
}
