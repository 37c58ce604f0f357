// Package mail delivers the rendered digest over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"time"

	"newsbrief/internal/config"
	"newsbrief/internal/logging"
)

// Mailer sends HTML digests. A disabled configuration yields a no-op
// mailer so the pipeline never branches on delivery settings.
type Mailer struct {
	cfg config.MailConfig
}

// New creates a Mailer from configuration.
func New(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers the digest HTML. Returns nil without network activity
// when delivery is disabled.
func (m *Mailer) Send(subjectDate time.Time, htmlBody string) error {
	if !m.cfg.Enabled {
		logging.Debug("mail delivery disabled")
		return nil
	}

	subject := fmt.Sprintf("Daily News Digest - %s", subjectDate.Format("2006-01-02"))
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, m.cfg.To, subject, htmlBody,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	// smtp.SendMail negotiates STARTTLS when the server offers it.
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{m.cfg.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	logging.Info("digest mailed", "to", m.cfg.To)
	return nil
}
