package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// listFilter reads the page, limit and status query parameters. Missing or
// non-numeric page and limit fall back to the service defaults.
func listFilter(c echo.Context) (ports.ListFilter, error) {
	status, ok := domain.ParseStatusFilter(strings.ToLower(c.QueryParam("status")))
	if !ok {
		return ports.ListFilter{}, domain.Invalid("status must be one of draft, published, deleted, all")
	}
	return ports.ListFilter{
		Status: status,
		Page: domain.PageRequest{
			Page:  queryInt(c, "page"),
			Limit: queryInt(c, "limit"),
		},
	}, nil
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(c echo.Context, name string) bool {
	b, _ := strconv.ParseBool(c.QueryParam(name))
	return b
}

// parseTimestamp accepts RFC 3339 or a bare YYYY-MM-DD date.
func parseTimestamp(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Invalid(field + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

// firstQuery returns the first non-empty query parameter among names.
func firstQuery(c echo.Context, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(c.QueryParam(n)); v != "" {
			return v
		}
	}
	return ""
}
