package domain

import (
	"context"
	"time"
)

// AuditEventType names an account lifecycle event
type AuditEventType string

const (
	AccountSignupEvent         AuditEventType = "ACCOUNT_SIGNUP"
	AccountLoginEvent          AuditEventType = "ACCOUNT_LOGIN"
	AccountLoginFailureEvent   AuditEventType = "ACCOUNT_LOGIN_FAILED"
	AccountFederatedLoginEvent AuditEventType = "ACCOUNT_FEDERATED_LOGIN"
	AccountLinkedEvent         AuditEventType = "ACCOUNT_FEDERATION_LINKED"

	ProfileUpdatedEvent     AuditEventType = "PROFILE_UPDATED"
	PaymentOnboardedEvent   AuditEventType = "PAYMENT_ONBOARDED"
	PaymentOnboardFailEvent AuditEventType = "PAYMENT_ONBOARDING_FAILED"

	PasswordResetRequestEvent  AuditEventType = "PASSWORD_RESET_REQUESTED"
	PasswordResetDeliveryFail  AuditEventType = "PASSWORD_RESET_DELIVERY_FAILED"
	PasswordResetCompleteEvent AuditEventType = "PASSWORD_RESET_COMPLETED"
)

// Outcome is the result recorded on an audit event
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// AuditEvent is one entry of the account audit trail. It never carries
// passwords or plaintext reset tokens.
type AuditEvent struct {
	EventType  AuditEventType `json:"event_type"`
	AccountID  string         `json:"account_id,omitempty"`
	Email      string         `json:"email,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Outcome    Outcome        `json:"outcome"`
	Reason     string         `json:"reason,omitempty"`
	Attrs      map[string]any `json:"attrs,omitempty"`
}

type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent starts a succeeded event for accountID, which may be empty
// when the caller could not be identified
func NewAuditEvent(eventType AuditEventType, accountID string) *AuditEvent {
	return &AuditEvent{
		EventType:  eventType,
		AccountID:  accountID,
		OccurredAt: time.Now().UTC(),
		Outcome:    OutcomeSucceeded,
	}
}

// Failed marks the event failed and records err as the reason
func (e *AuditEvent) Failed(err error) *AuditEvent {
	e.Outcome = OutcomeFailed
	if err != nil {
		e.Reason = err.Error()
	}
	return e
}

func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// With attaches one attribute; later values overwrite earlier ones
func (e *AuditEvent) With(key string, value any) *AuditEvent {
	if e.Attrs == nil {
		e.Attrs = make(map[string]any, 1)
	}
	e.Attrs[key] = value
	return e
}

func (e *AuditEvent) IsFailure() bool {
	return e.Outcome == OutcomeFailed
}
