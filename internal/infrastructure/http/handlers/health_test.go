package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakePinger struct {
	name string
	err  error
}

func (p fakePinger) Name() string                 { return p.name }
func (p fakePinger) Ping(_ context.Context) error { return p.err }

func readiness(t *testing.T, h *ReadinessHandler) (int, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestReadiness_NoDependencies(t *testing.T) {
	code, resp := readiness(t, NewReadinessHandler())
	if code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", code, resp)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	h := NewReadinessHandler(fakePinger{name: "mongodb"}, fakePinger{name: "redis", err: errors.New("connection refused")})
	code, resp := readiness(t, h)
	if code != http.StatusServiceUnavailable || resp.Status != "degraded" {
		t.Fatalf("expected 503 degraded, got %d %+v", code, resp)
	}
	if resp.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("mongodb should be ok: %+v", resp.Dependencies)
	}
	if resp.Dependencies["redis"].Error != "connection refused" {
		t.Fatalf("redis error not reported: %+v", resp.Dependencies)
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
