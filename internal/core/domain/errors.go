package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrForbidden          = errors.New("access forbidden")

	ErrMissingCredential = errors.New("token is missing")
	ErrTokenExpired      = errors.New("token has expired")
	ErrInvalidToken      = errors.New("token is invalid")

	ErrEmptyPrompt   = errors.New("no prompt provided")
	ErrQuotaExceeded = errors.New("prompt limit reached")

	ErrTransport = errors.New("upstream unreachable")
)

// UpstreamError reports a non-2xx or malformed response from the completion provider.
// Status and body are surfaced verbatim for diagnosis.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %d - %s", e.StatusCode, e.Body)
}

// TransportError reports a network failure reaching the completion provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
