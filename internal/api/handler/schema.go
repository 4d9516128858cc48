package handler

import (
	"time"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
)

// UnlimitedRemaining is reported as prompts_remaining for the superuser.
const UnlimitedRemaining = "Unlimited (Super User)"

type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type googleAuthRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Name     string `json:"name"      validate:"required"`
	GoogleID string `json:"google_id" validate:"required"`
}

type userResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PromptsUsed  int64  `json:"prompts_used"`
	PromptsLimit int64  `json:"prompts_limit"`
	IsSuperuser  bool   `json:"is_superuser"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

// --- Ask ---

// prompt carries no required tag: an empty prompt is rejected by the service
// with its own message.
type askRequest struct {
	Prompt          string `json:"prompt"`
	DocumentContent string `json:"document_content"`
}

type askResponse struct {
	Response string `json:"response"`
	// PromptsRemaining is a number, or UnlimitedRemaining for the superuser.
	PromptsRemaining any `json:"prompts_remaining" swaggertype:"string"`
}

// --- Mail ---

type sendEmailRequest struct {
	To       string `json:"to"       validate:"required,email"`
	Prompt   string `json:"prompt"   validate:"required"`
	Response string `json:"response" validate:"required"`
}

type sendEmailResponse struct {
	Success bool `json:"success"`
}

// --- Admin ---

type accountLookupResponse struct {
	User             userResponse `json:"user"`
	PromptsRemaining any          `json:"prompts_remaining" swaggertype:"string"`
}

func toUserResponse(a domain.Account, withCreatedAt bool) userResponse {
	u := userResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PromptsUsed:  a.PromptsUsed,
		PromptsLimit: a.PromptsLimit,
		IsSuperuser:  a.IsSuperuser,
	}
	if withCreatedAt && !a.CreatedAt.IsZero() {
		u.CreatedAt = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	return u
}

func remainingFor(a domain.Account) any {
	if a.IsSuperuser {
		return UnlimitedRemaining
	}
	return a.Quota().Remaining()
}
