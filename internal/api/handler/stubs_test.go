package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/api/middleware"
	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (string, *domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Account, error)
	googleFn   func(ctx context.Context, p ports.GoogleProfile) (string, *domain.Account, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (string, *domain.Account, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) GoogleSignIn(ctx context.Context, p ports.GoogleProfile) (string, *domain.Account, error) {
	return s.googleFn(ctx, p)
}

type stubAskService struct {
	got    ports.AskInput
	gotAcc domain.Account
	res    *ports.AskResult
	err    error
}

func (s *stubAskService) Ask(_ context.Context, acct domain.Account, in ports.AskInput) (*ports.AskResult, error) {
	s.gotAcc = acct
	s.got = in
	return s.res, s.err
}

type stubMailService struct {
	got []ports.EmailInput
	err error
}

func (s *stubMailService) Send(_ context.Context, in ports.EmailInput) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, in)
	return nil
}

type stubFinder struct {
	accounts map[string]domain.Account
}

func (f *stubFinder) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := f.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// newJSONContext builds an echo context with the validator installed and,
// when acct is non-nil, the account injected as the Auth middleware would.
func newJSONContext(method, target, body string, acct *domain.Account) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if acct != nil {
		c.Set(middleware.AccountKey, *acct)
	}
	return c, rec
}
