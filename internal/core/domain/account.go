package domain

import (
	"strings"
	"time"
)

const (
	// DefaultPromptsLimit is the quota granted to every newly created account.
	DefaultPromptsLimit int64 = 5
	// SuperuserPromptsLimit is effectively unlimited; superusers bypass the guard anyway.
	SuperuserPromptsLimit int64 = 999999
	// DefaultSuperuserEmail is the reserved address of the single superuser account.
	DefaultSuperuserEmail = "teamaibuddy@gmail.com"
)

// Account models a registered user or the distinguished superuser.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PromptsUsed  int64     `json:"prompts_used"`
	PromptsLimit int64     `json:"prompts_limit"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// Quota is the (used, limit) pair bounding how many completions an account may request.
type Quota struct {
	Used  int64
	Limit int64
}

// Remaining returns limit - used, never negative.
func (q Quota) Remaining() int64 {
	if r := q.Limit - q.Used; r > 0 {
		return r
	}
	return 0
}

// Quota returns the account's current counter snapshot.
func (a Account) Quota() Quota {
	return Quota{Used: a.PromptsUsed, Limit: a.PromptsLimit}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
