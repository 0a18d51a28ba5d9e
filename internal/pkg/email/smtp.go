// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/your-org/repairparts-backend/internal/config"
)

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	cfg      config.EmailConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTP sender
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:      cfg,
		sendMail: smtp.SendMail,
	}
}

// Send delivers the email. The context is only checked before dialing since
// net/smtp has no context support.
func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	serverAddr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := s.sendMail(serverAddr, auth, s.cfg.FromEmail, email.To, s.buildMessage(email)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(email *Email) []byte {
	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(email.To, ", "),
		"Subject":      email.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"utf-8\"",
	}

	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var msg bytes.Buffer
	for _, key := range keys {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", key, headers[key]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}
