package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/middleware"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

// request runs h against a fresh context. params are path parameter
// name/value pairs.
type request struct {
	method string
	target string
	body   string
	claims *token.Claims
	params []string
}

func run(t *testing.T, h echo.HandlerFunc, r request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.target, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(r.params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(r.params); i += 2 {
			names = append(names, r.params[i])
			values = append(values, r.params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if r.claims != nil {
		c.Set(middleware.ClaimsKey, r.claims)
		c.Set(middleware.RoleKey, r.claims.Role)
	}
	return rec, h(c)
}

// decode unmarshals the envelope and returns its data block.
func decode(t *testing.T, rec *httptest.ResponseRecorder) (map[string]any, any) {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	return resp, resp["data"]
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
