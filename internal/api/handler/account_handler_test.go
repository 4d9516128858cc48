package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

func TestAccountHandler_Profile(t *testing.T) {
	handler := NewAccountHandler(&stubFinder{})
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	c, rec := newJSONContext(http.MethodGet, "/profile", "", &domain.Account{
		ID: "1", Name: "Alice", Email: "a@example.com", PromptsUsed: 3, PromptsLimit: 5, CreatedAt: created,
	})
	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.ID != "1" || resp.User.PromptsUsed != 3 || resp.User.CreatedAt != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected profile: %+v", resp.User)
	}
}

func TestAccountHandler_Lookup(t *testing.T) {
	handler := NewAccountHandler(&stubFinder{accounts: map[string]domain.Account{
		"a@example.com":  {ID: "1", Email: "a@example.com", PromptsUsed: 3, PromptsLimit: 5},
		"su@example.com": {ID: "2", Email: "su@example.com", IsSuperuser: true, PromptsLimit: domain.SuperuserPromptsLimit},
	}})

	c, rec := newJSONContext(http.MethodGet, "/admin/accounts?email=a@example.com", "", nil)
	if err := handler.Lookup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["prompts_remaining"] != float64(2) {
		t.Fatalf("expected 2 remaining, got %v", resp["prompts_remaining"])
	}

	c, rec = newJSONContext(http.MethodGet, "/admin/accounts?email=su@example.com", "", nil)
	if err := handler.Lookup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["prompts_remaining"] != UnlimitedRemaining {
		t.Fatalf("expected unlimited, got %v", resp["prompts_remaining"])
	}
}

func TestAccountHandler_Lookup_Errors(t *testing.T) {
	handler := NewAccountHandler(&stubFinder{})

	c, _ := newJSONContext(http.MethodGet, "/admin/accounts", "", nil)
	var he *echo.HTTPError
	if err := handler.Lookup(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	c, _ = newJSONContext(http.MethodGet, "/admin/accounts?email=nobody@example.com", "", nil)
	if err := handler.Lookup(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
