package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// RequireSuperuser lets the request through only for the superuser account.
// It must run after Auth.
func RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, ok := AccountFrom(c)
			if !ok || !acct.IsSuperuser {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
