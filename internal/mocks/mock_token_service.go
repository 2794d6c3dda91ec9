package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/you/allospace/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// By default every minted token is distinct and verifies back to its claims.
type MockTokenService struct {
	MintFunc   func(accountID string, role domain.Role) (string, time.Time, error)
	VerifyFunc func(token string) (*domain.TokenClaims, error)

	mu     sync.Mutex
	seq    int
	issued map[string]*domain.TokenClaims
}

var _ domain.TokenService = (*MockTokenService)(nil)

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{issued: make(map[string]*domain.TokenClaims)}
}

// Mint issues a session token
func (m *MockTokenService) Mint(accountID string, role domain.Role) (string, time.Time, error) {
	if m.MintFunc != nil {
		return m.MintFunc(accountID, role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	token := fmt.Sprintf("token_%s_%s_%d", accountID, role, m.seq)
	expiresAt := time.Now().Add(24 * time.Hour)
	m.issued[token] = &domain.TokenClaims{
		ID:        fmt.Sprint(m.seq),
		AccountID: accountID,
		Role:      role,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	return token, expiresAt, nil
}

// Verify resolves a token minted by this mock
func (m *MockTokenService) Verify(token string) (*domain.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	claims, ok := m.issued[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
