package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

func TestMailHandler_SendEmail_Accepted(t *testing.T) {
	svc := &stubMailService{}
	handler := NewMailHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/send-email", `{"to":"f@example.com","prompt":"q","response":"a"}`, &domain.Account{ID: "9"})
	if err := handler.SendEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if len(svc.got) != 1 || svc.got[0].AccountID != "9" || svc.got[0].To != "f@example.com" {
		t.Fatalf("unexpected service input: %+v", svc.got)
	}
}

func TestMailHandler_SendEmail_MissingFields(t *testing.T) {
	svc := &stubMailService{}
	handler := NewMailHandler(svc)

	c, _ := newJSONContext(http.MethodPost, "/send-email", `{"to":"f@example.com"}`, &domain.Account{ID: "9"})
	err := handler.SendEmail(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if len(svc.got) != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestMailHandler_SendEmail_ServiceError(t *testing.T) {
	handler := NewMailHandler(&stubMailService{err: errors.New("queue closed")})

	c, _ := newJSONContext(http.MethodPost, "/send-email", `{"to":"f@example.com","prompt":"q","response":"a"}`, &domain.Account{ID: "9"})
	if err := handler.SendEmail(c); err == nil {
		t.Fatalf("expected error")
	}
}
