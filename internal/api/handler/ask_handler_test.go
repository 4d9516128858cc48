package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

func TestAskHandler_Success(t *testing.T) {
	svc := &stubAskService{res: &ports.AskResult{Answer: "42", Remaining: 0}}
	handler := NewAskHandler(svc)

	acct := &domain.Account{ID: "1", PromptsUsed: 4, PromptsLimit: 5}
	c, rec := newJSONContext(http.MethodPost, "/ask", `{"prompt":"meaning?","document_content":"doc"}`, acct)
	if err := handler.Ask(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.got.Prompt != "meaning?" || svc.got.Document != "doc" || svc.gotAcc.ID != "1" {
		t.Fatalf("unexpected service input: %+v %+v", svc.got, svc.gotAcc)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["response"] != "42" || resp["prompts_remaining"] != float64(0) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAskHandler_Superuser(t *testing.T) {
	svc := &stubAskService{res: &ports.AskResult{Answer: "hi", Unlimited: true}}
	handler := NewAskHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/ask", `{"prompt":"hello"}`, &domain.Account{ID: "su", IsSuperuser: true})
	if err := handler.Ask(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["prompts_remaining"] != "Unlimited (Super User)" {
		t.Fatalf("unexpected remaining: %v", resp["prompts_remaining"])
	}
}

func TestAskHandler_ServiceErrorPropagates(t *testing.T) {
	handler := NewAskHandler(&stubAskService{err: domain.ErrQuotaExceeded})

	c, _ := newJSONContext(http.MethodPost, "/ask", `{"prompt":"hello"}`, &domain.Account{ID: "1"})
	if err := handler.Ask(c); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestAskHandler_EmptyPromptReachesService(t *testing.T) {
	svc := &stubAskService{err: domain.ErrEmptyPrompt}
	handler := NewAskHandler(svc)

	c, _ := newJSONContext(http.MethodPost, "/ask", `{}`, &domain.Account{ID: "1"})
	if err := handler.Ask(c); !errors.Is(err, domain.ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestAskHandler_RequiresAccount(t *testing.T) {
	handler := NewAskHandler(&stubAskService{})

	c, _ := newJSONContext(http.MethodPost, "/ask", `{"prompt":"hello"}`, nil)
	err := handler.Ask(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
