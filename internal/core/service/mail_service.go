package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

const emailSubject = "Your AI Study Buddy Response"

// MailDedup abstracts the idempotency store (Redis).
type MailDedup interface {
	// Claim records the fingerprint and reports whether it was new.
	Claim(ctx context.Context, accountID, fingerprint string) (bool, error)
	// Release forgets a claim so the same email can be requested again.
	Release(ctx context.Context, accountID, fingerprint string) error
}

// MailQueue hands rendered messages to the delivery workers.
type MailQueue interface {
	Enqueue(ctx context.Context, msg ports.EmailMessage) error
}

// MailService validates, de-duplicates and queues question/answer emails.
type MailService struct {
	queue MailQueue
	dedup MailDedup
	log   zerolog.Logger
}

var _ ports.MailService = (*MailService)(nil)

func NewMailService(queue MailQueue, dedup MailDedup, log zerolog.Logger) *MailService {
	return &MailService{queue: queue, dedup: dedup, log: log}
}

// Send renders the question/answer email and queues it for delivery.
// An identical email requested again by the same account is silently skipped.
func (s *MailService) Send(ctx context.Context, in ports.EmailInput) error {
	to := strings.TrimSpace(in.To)
	if to == "" || strings.TrimSpace(in.Prompt) == "" || strings.TrimSpace(in.Response) == "" {
		return domain.ErrInvalidInput
	}

	fp := fingerprint(to, in.Prompt, in.Response)
	msg := ports.EmailMessage{
		To:      to,
		Subject: emailSubject,
		Body:    fmt.Sprintf("Your Question:\n%s\n\nAI Response:\n%s", in.Prompt, in.Response),
	}

	isNew, err := s.dedup.Claim(ctx, in.AccountID, fp)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("account_id", in.AccountID).Msg("mail dedup check failed, sending anyway")
	case !isNew:
		s.log.Debug().Str("account_id", in.AccountID).Msg("duplicate email skipped")
		return nil
	default:
		msg.AccountID, msg.Fingerprint = in.AccountID, fp
	}

	if err := s.queue.Enqueue(ctx, msg); err != nil {
		s.release(context.WithoutCancel(ctx), msg)
		return fmt.Errorf("queue email: %w", err)
	}

	s.log.Info().Str("account_id", in.AccountID).Msg("email queued")
	return nil
}

// DeliveryFailed drops the claim of a message the workers could not deliver,
// so the user can retry it.
func (s *MailService) DeliveryFailed(ctx context.Context, msg ports.EmailMessage) {
	s.release(ctx, msg)
}

func (s *MailService) release(ctx context.Context, msg ports.EmailMessage) {
	if msg.Fingerprint == "" {
		return
	}
	if err := s.dedup.Release(ctx, msg.AccountID, msg.Fingerprint); err != nil {
		s.log.Warn().Err(err).Str("account_id", msg.AccountID).Msg("mail dedup release failed")
	}
}

func fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
