package notifications

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/logging"
)

// SMTPConfig holds the outbound mail relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends transactional email over SMTP
type SMTPMailer struct {
	cfg  SMTPConfig
	log  logging.Logger
	send func(ctx context.Context, msg *mail.Msg) error
}

// NewSMTPMailer creates a mailer. Without a host messages are only logged.
func NewSMTPMailer(cfg SMTPConfig, log logging.Logger) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg, log: log}
	m.send = m.dialAndSend
	return m
}

// SendEmail builds a multipart text/HTML message and delivers it
func (m *SMTPMailer) SendEmail(ctx context.Context, email domain.EmailMessage) error {
	if m.cfg.Host == "" {
		m.log.Info(ctx, "email delivery disabled; message dropped", "to", email.To, "subject", email.Subject)
		return nil
	}

	msg, err := buildMessage(m.cfg.From, email)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func buildMessage(from string, email domain.EmailMessage) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Text)
	if email.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	}
	return msg, nil
}
