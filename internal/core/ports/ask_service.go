package ports

import (
	"context"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// CompletionRequest is a single question, optionally grounded in document text.
type CompletionRequest struct {
	Prompt   string
	Document string // optional
}

// CompletionGateway performs one upstream chat completion.
type CompletionGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// AskInput is the DTO passed from the transport layer to AskService.
type AskInput struct {
	Prompt   string
	Document string
}

// AskResult is returned after a successful completion.
type AskResult struct {
	Answer string
	// Remaining is limit - used after the commit. Meaningless when Unlimited is set.
	Remaining int64
	Unlimited bool
}

// AskService runs the quota-gated completion pipeline for an already resolved account.
type AskService interface {
	Ask(ctx context.Context, acct domain.Account, in AskInput) (*AskResult, error)
}
