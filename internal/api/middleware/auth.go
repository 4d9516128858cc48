package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

// AccountKey is the echo context key holding the resolved domain.Account.
const AccountKey = "account"

// Auth resolves the bearer token into an account and injects it into the context.
// The "Bearer " prefix is optional; a raw token is accepted as well.
func Auth(verifier ports.IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			acct, err := verifier.Resolve(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrMissingCredential):
					return echo.NewHTTPError(http.StatusUnauthorized, "Token is missing!")
				case errors.Is(err, domain.ErrTokenExpired):
					return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired!")
				case errors.Is(err, domain.ErrInvalidToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid!")
				case errors.Is(err, domain.ErrAccountNotFound):
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found!")
				}
				return err
			}

			c.Set(AccountKey, *acct)
			return next(c)
		}
	}
}

// AccountFrom returns the account injected by Auth.
func AccountFrom(c echo.Context) (domain.Account, bool) {
	acct, ok := c.Get(AccountKey).(domain.Account)
	return acct, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
