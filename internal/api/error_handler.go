package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth middleware, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Upstream provider failures surface their status and body verbatim.
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		log.Warn().Err(upErr).Str("path", c.Path()).Msg("completion provider error")
		return http.StatusInternalServerError, upErr.Error()
	}
	var trErr *domain.TransportError
	if errors.As(err, &trErr) {
		log.Warn().Err(trErr).Str("path", c.Path()).Msg("completion provider unreachable")
		return http.StatusInternalServerError, trErr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		return http.StatusBadRequest, "No prompt provided"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "All fields are required"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusForbidden, domain.QuotaExceededMessage
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, "User already exists!"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
