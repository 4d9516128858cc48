package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// AccountFinder is the read side of the account store used by the admin lookup.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type AccountHandler struct {
	accounts AccountFinder
}

func NewAccountHandler(accounts AccountFinder) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Profile returns the authenticated account.
//
// @Summary      Current user profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	acct, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{User: toUserResponse(acct, true)})
}

// Lookup returns another account's quota. Superuser only.
//
// @Summary      Look up an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Account email"
// @Success      200    {object}  accountLookupResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /admin/accounts [get]
func (h *AccountHandler) Lookup(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email query parameter is required")
	}

	acct, err := h.accounts.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accountLookupResponse{
		User:             toUserResponse(*acct, true),
		PromptsRemaining: remainingFor(*acct),
	})
}
