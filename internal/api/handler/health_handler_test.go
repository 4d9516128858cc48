package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Root(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/", "", nil)
	if err := NewHealthHandler(nil).Root(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "healthy" || resp["message"] != "AI Buddy Backend is running!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ready := NewHealthHandler(map[string]Pinger{"mongodb": stubPinger{}, "redis": stubPinger{}})
	c, rec := newJSONContext(http.MethodGet, "/health/ready", "", nil)
	if err := ready.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	degraded := NewHealthHandler(map[string]Pinger{"mongodb": stubPinger{}, "redis": stubPinger{err: errors.New("connection refused")}})
	c, rec = newJSONContext(http.MethodGet, "/health/ready", "", nil)
	if err := degraded.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("unexpected readiness: %+v", resp)
	}
}
