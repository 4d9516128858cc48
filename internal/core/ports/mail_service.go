package ports

import "context"

// EmailInput carries a question/answer pair to be mailed to a recipient.
type EmailInput struct {
	AccountID string
	To        string
	Prompt    string
	Response  string
}

// EmailMessage is a fully rendered plain-text email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string

	// AccountID and Fingerprint identify the de-duplication claim held for
	// this message. Both are empty when no claim was taken.
	AccountID   string
	Fingerprint string
}

// MailSender delivers a rendered message.
type MailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// MailService validates, de-duplicates and queues question/answer emails.
type MailService interface {
	Send(ctx context.Context, in EmailInput) error
}
