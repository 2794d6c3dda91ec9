package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/allospace/internal/logging"
)

// messageCreator is the part of the Twilio REST client used here
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSMS sends text messages through Twilio
type TwilioSMS struct {
	api        messageCreator
	fromNumber string
	log        logging.Logger
}

// NewTwilioSMS creates a Twilio sender. Without a from number messages are only logged.
func NewTwilioSMS(accountSID, authToken, fromNumber string, log logging.Logger) *TwilioSMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSMS{api: client.Api, fromNumber: fromNumber, log: log}
}

// SendSMS delivers message to the E.164 number to
func (t *TwilioSMS) SendSMS(ctx context.Context, to, message string) error {
	if t.fromNumber == "" {
		t.log.Info(ctx, "sms delivery disabled; message dropped", "to", to)
		return nil
	}
	if to == "" {
		return fmt.Errorf("failed to send SMS: empty recipient")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
