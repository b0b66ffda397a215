package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig carries the connection settings for the mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// BaseURL is the public URL the activation/reset links point at.
	BaseURL string
}

// smtpMailer implements Mailer over a plain SMTP relay.
type smtpMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a Mailer that delivers through the configured relay.
func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendActivation(ctx context.Context, email, name, token string) error {
	subject := "Activate your account"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour coaching account has been created. Activate it here:\n%s/activate?token=%s\n",
		name, m.cfg.BaseURL, token,
	)
	return m.send(ctx, email, subject, body)
}

func (m *smtpMailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account:\n%s/reset?token=%s\n\nIgnore this mail if that wasn't you.\n",
		name, m.cfg.BaseURL, token,
	)
	return m.send(ctx, email, subject, body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
