// Package mail delivers rendered messages over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 465
)

// ErrNotConfigured is returned when no sender credentials were provided.
var ErrNotConfigured = errors.New("smtp sender not configured")

type Config struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// dialer is the subset of gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends one message per connection. Port 465 uses implicit TLS.
type SMTPSender struct {
	from   string
	dialer dialer
}

var _ ports.MailSender = (*SMTPSender)(nil)

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	return &SMTPSender{from: cfg.Sender, dialer: d}
}

// Send builds a plain-text message and delivers it. gomail has no context
// support, so ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if s.from == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
