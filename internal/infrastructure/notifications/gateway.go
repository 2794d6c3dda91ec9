package notifications

import (
	"context"

	"github.com/you/allospace/domain"
)

// EmailSender delivers one email
type EmailSender interface {
	SendEmail(ctx context.Context, msg domain.EmailMessage) error
}

// SMSSender delivers one text message
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Gateway implements domain.NotificationService over an email and an SMS channel
type Gateway struct {
	email EmailSender
	sms   SMSSender
}

func NewGateway(email EmailSender, sms SMSSender) domain.NotificationService {
	return &Gateway{email: email, sms: sms}
}

// SendEmail implements domain.NotificationService
func (g *Gateway) SendEmail(ctx context.Context, msg domain.EmailMessage) error {
	return g.email.SendEmail(ctx, msg)
}

// SendSMS implements domain.NotificationService
func (g *Gateway) SendSMS(ctx context.Context, to, message string) error {
	return g.sms.SendSMS(ctx, to, message)
}
