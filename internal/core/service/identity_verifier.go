package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

// IdentityVerifier validates HS256 bearer tokens and resolves them to accounts.
type IdentityVerifier struct {
	repo      ports.AccountRepository
	jwtSecret []byte
}

var _ ports.IdentityVerifier = (*IdentityVerifier)(nil)

func NewIdentityVerifier(repo ports.AccountRepository, jwtSecret string) *IdentityVerifier {
	return &IdentityVerifier{repo: repo, jwtSecret: []byte(jwtSecret)}
}

// Resolve checks signature and expiry first; the store is only consulted for a
// well-formed, unexpired token.
func (v *IdentityVerifier) Resolve(ctx context.Context, credential string) (*domain.Account, error) {
	if credential == "" {
		return nil, domain.ErrMissingCredential
	}

	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(credential, claims, func(*jwt.Token) (any, error) {
		return v.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}

	acct, err := v.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	return acct, nil
}
