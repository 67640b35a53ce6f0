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

func okPinger() Pinger { return PingerFunc(func(context.Context) error { return nil }) }

func failPinger() Pinger {
	return PingerFunc(func(context.Context) error { return errors.New("connection refused") })
}

func serve(t *testing.T, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestLiveness(t *testing.T) {
	h := NewHealthHandler("development", true, okPinger(), nil)
	rec := serve(t, h.Liveness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || body.Database != "connected" {
		t.Fatalf("unexpected body: %+v", body)
	}

	h = NewHealthHandler("development", true, failPinger(), nil)
	if rec := serve(t, h.Liveness); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the database is down, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	h := NewHealthHandler("production", false, okPinger(), failPinger())
	rec := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Dependencies["mongodb"].Status != "ok" || body.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("unexpected dependencies: %+v", body.Dependencies)
	}

	h = NewHealthHandler("production", false, okPinger(), nil)
	rec = serve(t, h.Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without redis configured, got %d", rec.Code)
	}
}

func TestRoot(t *testing.T) {
	h := NewHealthHandler("production", false, okPinger(), nil)
	rec := serve(t, h.Root)

	var body rootResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Docs != "disabled in production" || body.Environment != "production" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
