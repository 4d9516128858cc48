package domain

// QuotaExceededMessage is shown verbatim to users whose quota is spent.
const QuotaExceededMessage = "You have reached your prompt limit. Please contact support at LinkedIn: jitesh-kumar05 for more prompts."

// Admit decides whether acct may consume one more completion.
//
// The decision is made against the snapshot passed in; the durable counter is
// only incremented by the account store after the upstream call succeeds.
func Admit(acct Account) error {
	if acct.IsSuperuser {
		return nil
	}
	if acct.PromptsUsed < acct.PromptsLimit {
		return nil
	}
	return ErrQuotaExceeded
}
