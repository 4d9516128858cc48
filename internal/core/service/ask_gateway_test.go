package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
	"github.com/aibuddy/aibuddy-api/internal/infrastructure/llm"
)

func TestAskService_Ask_IncompleteCompletionDoesNotConsumeQuota(t *testing.T) {
	for _, body := range []string{
		`{"choices":[{}]}`,
		`{"choices":[{"message":{"content":null}}]}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		repo := newStubAccountRepo()
		acct := repo.seed(domain.Account{Email: "a@example.com", PromptsUsed: 2, PromptsLimit: 5})
		meter := &stubMeter{}
		svc := NewAskService(repo, llm.New(llm.Config{Endpoint: srv.URL}), meter, zerolog.Nop())

		res, err := svc.Ask(context.Background(), *acct, ports.AskInput{Prompt: "hi"})
		srv.Close()

		var upErr *domain.UpstreamError
		if !errors.As(err, &upErr) {
			t.Fatalf("body %s: expected UpstreamError, got res=%+v err=%v", body, res, err)
		}
		if repo.incrementCount() != 0 || repo.used(acct.ID) != 2 {
			t.Fatalf("body %s: incomplete completion must not consume quota", body)
		}
		if len(meter.outcomes) != 1 || meter.outcomes[0] != OutcomeUpstreamError {
			t.Errorf("body %s: unexpected outcomes: %v", body, meter.outcomes)
		}
	}
}
