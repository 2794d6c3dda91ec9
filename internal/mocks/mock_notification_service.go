package mocks

import (
	"context"
	"sync"

	"github.com/you/allospace/domain"
)

// SentSMS is one recorded text message
type SentSMS struct {
	To      string
	Message string
}

// MockNotificationService implements domain.NotificationService interface for testing.
// Successful sends are recorded.
type MockNotificationService struct {
	SendSMSFunc   func(ctx context.Context, to, message string) error
	SendEmailFunc func(ctx context.Context, msg domain.EmailMessage) error

	mu     sync.Mutex
	Emails []domain.EmailMessage
	SMS    []SentSMS
}

var _ domain.NotificationService = (*MockNotificationService)(nil)

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS sends an SMS message
func (m *MockNotificationService) SendSMS(ctx context.Context, to, message string) error {
	if m.SendSMSFunc != nil {
		if err := m.SendSMSFunc(ctx, to, message); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.SMS = append(m.SMS, SentSMS{To: to, Message: message})
	m.mu.Unlock()
	return nil
}

// SendEmail sends an email message
func (m *MockNotificationService) SendEmail(ctx context.Context, msg domain.EmailMessage) error {
	if m.SendEmailFunc != nil {
		if err := m.SendEmailFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Emails = append(m.Emails, msg)
	m.mu.Unlock()
	return nil
}

// LastEmail returns the most recent email, or nil
func (m *MockNotificationService) LastEmail() *domain.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Emails) == 0 {
		return nil
	}
	e := m.Emails[len(m.Emails)-1]
	return &e
}
