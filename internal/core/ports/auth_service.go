package ports

import (
	"context"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// GoogleProfile is the identity asserted by a Google sign-in on the client.
type GoogleProfile struct {
	Email    string
	Name     string
	GoogleID string
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	GoogleSignIn(ctx context.Context, profile GoogleProfile) (string, *domain.Account, error)
}

// IdentityVerifier resolves a bearer credential to the account it was issued for.
type IdentityVerifier interface {
	Resolve(ctx context.Context, credential string) (*domain.Account, error)
}
