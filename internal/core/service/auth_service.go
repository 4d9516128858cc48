package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// tokenClaims is the payload of every issued bearer token.
type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and Google sign-in.
type AuthService struct {
	repo      ports.AccountRepository
	jwtSecret string
	tokenTTL  time.Duration
	limit     int64
	log       zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, limit: domain.DefaultPromptsLimit, log: log}
}

// WithDefaultPromptsLimit overrides the quota granted to newly created accounts.
func (s *AuthService) WithDefaultPromptsLimit(n int64) *AuthService {
	if n > 0 {
		s.limit = n
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.Account, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PromptsLimit: s.limit,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created.ID)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("account_id", created.ID).Msg("account registered")
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(acct.ID)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// GoogleSignIn reuses the account registered under the profile's email, or
// creates one on first sign-in.
func (s *AuthService) GoogleSignIn(ctx context.Context, p ports.GoogleProfile) (string, *domain.Account, error) {
	email := domain.NormalizeEmail(p.Email)
	name := strings.TrimSpace(p.Name)
	if email == "" || name == "" || p.GoogleID == "" {
		return "", nil, domain.ErrInvalidInput
	}

	acct, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccountNotFound):
		acct, err = s.createGoogleAccount(ctx, name, email, p.GoogleID)
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, err
	}

	token, err := s.generateToken(acct.ID)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

func (s *AuthService) createGoogleAccount(ctx context.Context, name, email, googleID string) (*domain.Account, error) {
	hash, err := hashPassword("google_" + googleID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PromptsLimit: s.limit,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrAccountExists) {
		// lost a race with a concurrent sign-in for the same email
		return s.repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", created.ID).Msg("account created from google sign-in")
	return created, nil
}

// EnsureSuperuser creates the reserved superuser account if it does not exist yet.
// An empty password yields a random one, which disables password login for it.
func (s *AuthService) EnsureSuperuser(ctx context.Context, email, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		email = domain.DefaultSuperuserEmail
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if !existing.IsSuperuser {
			s.log.Warn().Str("email", email).Msg("reserved superuser email belongs to a regular account")
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("ensure superuser: %w", err)
	}

	if password == "" {
		password, err = randomSecret()
		if err != nil {
			return nil, fmt.Errorf("ensure superuser: %w", err)
		}
		s.log.Warn().Msg("SUPERUSER_PASSWORD not set, superuser password login disabled")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("ensure superuser: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         "Super User",
		Email:        email,
		PasswordHash: hash,
		PromptsLimit: domain.SuperuserPromptsLimit,
		IsSuperuser:  true,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrAccountExists) {
		return s.repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("ensure superuser: %w", err)
	}
	s.log.Info().Str("account_id", created.ID).Msg("superuser created")
	return created, nil
}

func (s *AuthService) generateToken(accountID string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
