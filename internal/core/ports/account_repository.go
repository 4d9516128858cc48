package ports

import (
	"context"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts and their quota counters.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create inserts a new account. Returns domain.ErrAccountExists when the
	// email is already taken. A zero PromptsLimit is replaced by the default.
	Create(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	// IncrementUsage atomically adds one to prompts_used and returns the
	// post-increment counters. Concurrent calls on the same account are never lost.
	IncrementUsage(ctx context.Context, id string) (domain.Quota, error)
}
