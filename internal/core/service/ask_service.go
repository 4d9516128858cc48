package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

// Ask outcomes reported to the AskMeter.
const (
	OutcomeAnswered       = "answered"
	OutcomeEmptyPrompt    = "empty_prompt"
	OutcomeQuotaExceeded  = "quota_exceeded"
	OutcomeUpstreamError  = "upstream_error"
	OutcomeTransportError = "transport_error"
)

// AskMeter observes the ask pipeline for monitoring.
type AskMeter interface {
	OnAsk(outcome string)
	OnCompletion(d time.Duration, ok bool)
	OnCommit()
	OnCommitFailure()
}

// NopMeter discards all observations.
type NopMeter struct{}

func (NopMeter) OnAsk(string)                     {}
func (NopMeter) OnCompletion(time.Duration, bool) {}
func (NopMeter) OnCommit()                        {}
func (NopMeter) OnCommitFailure()                 {}

type AskService struct {
	repo    ports.AccountRepository
	gateway ports.CompletionGateway
	meter   AskMeter
	log     zerolog.Logger
}

var _ ports.AskService = (*AskService)(nil)

func NewAskService(repo ports.AccountRepository, gateway ports.CompletionGateway, meter AskMeter, log zerolog.Logger) *AskService {
	if meter == nil {
		meter = NopMeter{}
	}
	return &AskService{repo: repo, gateway: gateway, meter: meter, log: log}
}

// Ask admits the request against the account snapshot, performs a single
// upstream completion and, on success only, commits one unit of usage.
func (s *AskService) Ask(ctx context.Context, acct domain.Account, in ports.AskInput) (*ports.AskResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		s.meter.OnAsk(OutcomeEmptyPrompt)
		return nil, domain.ErrEmptyPrompt
	}

	if err := domain.Admit(acct); err != nil {
		s.meter.OnAsk(OutcomeQuotaExceeded)
		s.log.Info().
			Str("account_id", acct.ID).
			Int64("prompts_used", acct.PromptsUsed).
			Int64("prompts_limit", acct.PromptsLimit).
			Msg("ask denied")
		return nil, err
	}

	// Once issued, the upstream call and the commit run to completion even if
	// the client goes away; the http client timeout bounds them.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	answer, err := s.gateway.Complete(ctx, ports.CompletionRequest{Prompt: in.Prompt, Document: in.Document})
	s.meter.OnCompletion(time.Since(start), err == nil)
	if err != nil {
		outcome := OutcomeUpstreamError
		if errors.Is(err, domain.ErrTransport) {
			outcome = OutcomeTransportError
		}
		s.meter.OnAsk(outcome)
		s.log.Warn().Err(err).Str("account_id", acct.ID).Msg("completion failed")
		return nil, fmt.Errorf("ask: %w", err)
	}
	s.meter.OnAsk(OutcomeAnswered)

	if acct.IsSuperuser {
		return &ports.AskResult{Answer: answer, Unlimited: true}, nil
	}

	quota, err := s.repo.IncrementUsage(ctx, acct.ID)
	if err != nil {
		// The answer was already paid for upstream; hand it back uncharged.
		s.meter.OnCommitFailure()
		s.log.Error().Err(err).Str("account_id", acct.ID).Msg("usage commit failed after completion")
		estimate := domain.Quota{Used: acct.PromptsUsed + 1, Limit: acct.PromptsLimit}
		return &ports.AskResult{Answer: answer, Remaining: estimate.Remaining()}, nil
	}
	s.meter.OnCommit()

	s.log.Info().
		Str("account_id", acct.ID).
		Int64("prompts_used", quota.Used).
		Int64("prompts_limit", quota.Limit).
		Msg("prompt answered")

	return &ports.AskResult{Answer: answer, Remaining: quota.Remaining()}, nil
}
