package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthzReportsUptime(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	now := base
	h := NewHealthHandlers(
		WithHealthClock(func() time.Time { return now }),
		WithHealthEnvironment("test"),
	)
	now = base.Add(90 * time.Second)

	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", payload["status"])
	}
	if payload["uptime"] != "1m30s" {
		t.Fatalf("expected 1m30s uptime, got %v", payload["uptime"])
	}
	if payload["environment"] != "test" {
		t.Fatalf("expected test environment, got %v", payload["environment"])
	}
}

func TestReadyzProbeSuccess(t *testing.T) {
	h := NewHealthHandlers(WithReadinessProbe(func(context.Context) error { return nil }))

	rr := httptest.NewRecorder()
	h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestReadyzProbeFailure(t *testing.T) {
	h := NewHealthHandlers(WithReadinessProbe(func(context.Context) error {
		return errors.New("database unreachable")
	}))

	rr := httptest.NewRecorder()
	h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload["error"] != "not_ready" {
		t.Fatalf("expected not_ready code, got %v", payload["error"])
	}
}
