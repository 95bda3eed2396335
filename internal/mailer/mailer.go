// Package mailer sends contact-form notification mail over SMTP.
package mailer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/wisnuvb/calmsey/internal/config"
)

// Message is one outbound notification.
type Message struct {
	Subject string
	Body    string
}

// Mailer delivers notification messages. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(msg Message) error
	Enabled() bool
}

// SMTPMailer sends mail through a configured relay using STARTTLS and
// SASL PLAIN auth when credentials are present.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// New returns an SMTPMailer, or a disabled no-op mailer when no host is
// configured.
func New(cfg config.SMTPConfig, logger *slog.Logger) Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.To) == "" {
		return disabledMailer{}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Enabled reports whether messages will actually be delivered.
func (m *SMTPMailer) Enabled() bool { return true }

// Send delivers one message to the configured recipient.
func (m *SMTPMailer) Send(msg Message) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	client, err := smtp.DialStartTLS(addr, nil)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	body := buildMessage(from, m.cfg.To, msg)
	if err := client.SendMail(from, []string{m.cfg.To}, strings.NewReader(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return client.Quit()
}

func buildMessage(from, to string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}

type disabledMailer struct{}

func (disabledMailer) Send(Message) error { return nil }
func (disabledMailer) Enabled() bool      { return false }
