package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

func signToken(t *testing.T, secret string, claims tokenClaims, method jwt.SigningMethod) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestIdentityVerifier_Resolve_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
	token, registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	acct, err := NewIdentityVerifier(repo, "secret").Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if acct.ID != registered.ID || acct.Email != "alice@example.com" {
		t.Fatalf("unexpected account: %+v", acct)
	}
}

func TestIdentityVerifier_Resolve_Failures(t *testing.T) {
	repo := newStubAccountRepo()
	known := repo.seed(domain.Account{Email: "a@example.com", PromptsLimit: 5})
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", domain.ErrMissingCredential},
		{"garbage", "not-a-token", domain.ErrInvalidToken},
		{"expired", signToken(t, "secret", tokenClaims{UserID: known.ID, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}}, jwt.SigningMethodHS256), domain.ErrTokenExpired},
		{"wrong secret", signToken(t, "other", tokenClaims{UserID: known.ID, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"wrong alg", signToken(t, "secret", tokenClaims{UserID: known.ID, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, jwt.SigningMethodHS512), domain.ErrInvalidToken},
		{"no expiry", signToken(t, "secret", tokenClaims{UserID: known.ID}, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"no user", signToken(t, "secret", tokenClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"unknown account", signToken(t, "secret", tokenClaims{UserID: "999", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}, jwt.SigningMethodHS256), domain.ErrAccountNotFound},
	}

	v := NewIdentityVerifier(repo, "secret")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Resolve(context.Background(), tc.token)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIdentityVerifier_Resolve_ExpiredNeverTouchesStore(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errors.New("store must not be called")

	expired := signToken(t, "secret", tokenClaims{
		UserID:           "1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}, jwt.SigningMethodHS256)

	if _, err := NewIdentityVerifier(repo, "secret").Resolve(context.Background(), expired); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
