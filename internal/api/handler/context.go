package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/api/middleware"
	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// ctxAccount returns the account resolved by the Auth middleware. Its absence
// means the route was registered without Auth, which is rejected with 401.
func ctxAccount(c echo.Context) (domain.Account, error) {
	acct, ok := middleware.AccountFrom(c)
	if !ok || acct.ID == "" {
		return domain.Account{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated account")
	}
	return acct, nil
}

// bindAndValidate decodes the JSON body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
