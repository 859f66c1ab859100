package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/mailgun/mailgun-go/v4"
)

const mailSendTimeout = 5 * time.Second

type mailgunMailer struct {
	domain    string
	apiKey    string
	apiBase   string
	from      string
	recipient string
}

// NewMailer returns a Mailgun backed [Mailer] when cfg carries a domain and an
// API key. Otherwise messages are written to the log, which is how the
// server runs in development.
func NewMailer(cfg config.Mail, logger *logger.Logger) Mailer {
	if cfg.Domain == "" || cfg.APIKey == "" {
		logger.Warn().Msg("mailgun is not configured, contact messages will only be logged")
		return &logMailer{logger: logger}
	}

	return &mailgunMailer{
		domain:    cfg.Domain,
		apiKey:    cfg.APIKey,
		apiBase:   cfg.APIBase,
		from:      cfg.From,
		recipient: cfg.Recipient,
	}
}

func (m *mailgunMailer) SendContact(ctx context.Context, msg models.ContactMessage) error {
	mg := mailgun.NewMailgun(m.domain, m.apiKey)
	if m.apiBase != "" {
		mg.SetAPIBase(m.apiBase)
	}

	message := mailgun.NewMessage(m.from, contactSubject(msg), contactBody(msg), m.recipient)
	message.SetReplyTo(msg.Email)

	ctx, cancel := context.WithTimeout(ctx, mailSendTimeout)
	defer cancel()

	if _, _, err := mg.Send(ctx, message); err != nil {
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	return nil
}

type logMailer struct {
	logger *logger.Logger
}

func (m *logMailer) SendContact(_ context.Context, msg models.ContactMessage) error {
	m.logger.Info().
		Str("func", "*logMailer.SendContact").
		Str("from_name", msg.Name).
		Str("from_email", msg.Email).
		Int("message_length", len(msg.Message)).
		Msg("contact message received (mail relay disabled)")
	return nil
}

func contactSubject(msg models.ContactMessage) string {
	return "New contact form message from " + msg.Name
}

func contactBody(msg models.ContactMessage) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\n%s\n", msg.Name, msg.Email, msg.Message)
}
