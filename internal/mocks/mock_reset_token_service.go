package mocks

import (
	"fmt"
	"sync"

	"github.com/you/allospace/domain"
)

// MockResetTokenService implements domain.ResetTokenService interface for testing
type MockResetTokenService struct {
	GenerateFunc func() (string, string, error)
	HashFunc     func(plain string) string

	mu  sync.Mutex
	seq int
}

var _ domain.ResetTokenService = (*MockResetTokenService)(nil)

func NewMockResetTokenService() *MockResetTokenService {
	return &MockResetTokenService{}
}

// Generate returns "reset_<n>" and its hash
func (m *MockResetTokenService) Generate() (string, string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	m.seq++
	plain := fmt.Sprintf("reset_%d", m.seq)
	m.mu.Unlock()
	return plain, m.Hash(plain), nil
}

// Hash returns "hash:" + plain by default
func (m *MockResetTokenService) Hash(plain string) string {
	if m.HashFunc != nil {
		return m.HashFunc(plain)
	}
	return "hash:" + plain
}
