package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

func testIssuer() *token.Issuer {
	return token.NewIssuer("secret", time.Minute, time.Hour)
}

func issuePair(t *testing.T, issuer *token.Issuer, role domain.Role) *token.Pair {
	t.Helper()
	pair, err := issuer.Issue(&domain.User{ID: "4", Email: "admin.pusat@pdpi.or.id", Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return pair
}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	issuer := testIssuer()
	pair := issuePair(t, issuer, domain.RoleAdminPusat)

	called := false
	rec := runAuth(t, Auth(issuer), "Bearer "+pair.AccessToken, func(c echo.Context) error {
		called = true
		claims, ok := Claims(c)
		if !ok || claims.UserID != "4" {
			t.Fatalf("claims not set: %+v", claims)
		}
		if Role(c) != domain.RoleAdminPusat {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	issuer := testIssuer()
	pair := issuePair(t, issuer, domain.RoleMember)
	other := issuePair(t, token.NewIssuer("other-secret", time.Minute, time.Hour), domain.RoleMember)

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"empty bearer":    "Bearer ",
		"garbage":         "Bearer not-a-token",
		"refresh token":   "Bearer " + pair.RefreshToken,
		"foreign signing": "Bearer " + other.AccessToken,
	}
	for name, header := range cases {
		rec := runAuth(t, Auth(issuer), header, func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", name)
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	issuer := testIssuer()
	pair := issuePair(t, issuer, domain.RoleMember)

	cases := map[string]struct {
		header string
		want   domain.Role
	}{
		"anonymous":     {"", domain.RolePublic},
		"valid token":   {"Bearer " + pair.AccessToken, domain.RoleMember},
		"invalid token": {"Bearer nope", domain.RolePublic},
	}
	for name, tc := range cases {
		var got domain.Role
		rec := runAuth(t, OptionalAuth(issuer), tc.header, func(c echo.Context) error {
			got = Role(c)
			return c.NoContent(http.StatusOK)
		})
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", name, rec.Code)
		}
		if got != tc.want {
			t.Errorf("%s: expected role %s, got %s", name, tc.want, got)
		}
	}
}
