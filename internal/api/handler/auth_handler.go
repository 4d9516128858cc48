package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account with the default prompt quota.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, acct, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    toUserResponse(*acct, false),
	})
}

// Login authenticates with email and password and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, acct, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(*acct, false),
	})
}

// GoogleAuth signs in with a Google profile, creating the account on first use.
//
// @Summary      Google sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleAuthRequest  true  "Google profile"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /google-auth [post]
func (h *AuthHandler) GoogleAuth(c echo.Context) error {
	var req googleAuthRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, acct, err := h.authService.GoogleSignIn(c.Request().Context(), ports.GoogleProfile{
		Email:    req.Email,
		Name:     req.Name,
		GoogleID: req.GoogleID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Google authentication successful",
		Token:   token,
		User:    toUserResponse(*acct, false),
	})
}
