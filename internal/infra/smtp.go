package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"jumboscan/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending the expiry digest.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// EnviarDigest sends a plain-text message with an optional PDF attachment.
func (m *Mailer) EnviarDigest(to []string, subject, body string, adjunto []byte, nombreAdjunto string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	if len(adjunto) > 0 {
		if _, err := e.Attach(bytes.NewReader(adjunto), nombreAdjunto, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
