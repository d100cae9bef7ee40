package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pdpi/member-portal/internal/core/domain"
)

func handle(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Invalid("title is required"), http.StatusBadRequest},
		{fmt.Errorf("%w: x", domain.ErrInvalidPosition), http.StatusBadRequest},
		{domain.ErrFileTypeNotAllowed, http.StatusBadRequest},
		{fmt.Errorf("%w: 6MB", domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: token expired", domain.ErrInvalidToken), http.StatusUnauthorized},
		{domain.ErrFixedMenuRemoved, http.StatusForbidden},
		{fmt.Errorf("get: %w", domain.ErrContentNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %q", domain.ErrSlugTaken, "kongres"), http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed},
		{errors.New("mongo exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, resp := handle(t, tc.err)
		if code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, code)
		}
		if resp.Success || resp.Message == "" {
			t.Errorf("%v: malformed envelope %+v", tc.err, resp)
		}
	}
}

func TestErrorHandler_ValidationReason(t *testing.T) {
	_, resp := handle(t, fmt.Errorf("create: %w", domain.Invalid("title is required")))
	if resp.Message != "title is required" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	_, resp := handle(t, errors.New("dial tcp 10.0.0.1:27017: refused"))
	if resp.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp.Message)
	}
}
