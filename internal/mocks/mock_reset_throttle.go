package mocks

import (
	"context"
	"time"

	"github.com/you/allospace/domain"
)

// MockResetThrottle implements domain.ResetThrottle interface for testing
type MockResetThrottle struct {
	AcquireFunc func(ctx context.Context, accountID string) (bool, time.Duration, error)
	ReleaseFunc func(ctx context.Context, accountID string) error

	Released []string
}

var _ domain.ResetThrottle = (*MockResetThrottle)(nil)

func NewMockResetThrottle() *MockResetThrottle {
	return &MockResetThrottle{}
}

// Acquire always succeeds by default
func (m *MockResetThrottle) Acquire(ctx context.Context, accountID string) (bool, time.Duration, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, accountID)
	}
	return true, 0, nil
}

// Release records the account id
func (m *MockResetThrottle) Release(ctx context.Context, accountID string) error {
	m.Released = append(m.Released, accountID)
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, accountID)
	}
	return nil
}
