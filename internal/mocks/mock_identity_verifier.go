package mocks

import (
	"context"

	"github.com/you/allospace/domain"
)

// MockIdentityVerifier implements domain.IdentityVerifier interface for testing
type MockIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, assertion string) (*domain.FederatedIdentity, error)
}

var _ domain.IdentityVerifier = (*MockIdentityVerifier)(nil)

func NewMockIdentityVerifier() *MockIdentityVerifier {
	return &MockIdentityVerifier{}
}

// Verify checks an identity assertion
func (m *MockIdentityVerifier) Verify(ctx context.Context, assertion string) (*domain.FederatedIdentity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, assertion)
	}
	// Default behavior: reject everything
	return nil, domain.ErrInvalidAssertion
}
