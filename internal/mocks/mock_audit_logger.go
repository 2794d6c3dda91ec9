package mocks

import (
	"context"
	"sync"

	"github.com/you/allospace/domain"
)

// MockAuditLogger records audit events for assertions
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)

func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.EventType)
	}
	return out
}
