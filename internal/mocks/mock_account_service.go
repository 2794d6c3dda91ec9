package mocks

import (
	"context"

	"github.com/you/allospace/domain"
)

// MockAccountService implements domain.AccountService interface for testing
type MockAccountService struct {
	SignupFunc                 func(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error)
	LoginFunc                  func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	FederatedLoginFunc         func(ctx context.Context, assertion string) (*domain.AuthResult, error)
	UpdateProfileFunc          func(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error)
	GetProfileFunc             func(ctx context.Context, accountID string) (*domain.Account, error)
	BeginPaymentOnboardingFunc func(ctx context.Context, accountID string, in domain.PaymentInput) (*domain.PaymentProfile, error)
	RequestPasswordResetFunc   func(ctx context.Context, email string) error
	CompletePasswordResetFunc  func(ctx context.Context, token, newPassword string) (*domain.AuthResult, error)
}

var _ domain.AccountService = (*MockAccountService)(nil)

// NewMockAccountService creates a new MockAccountService; unset operations fail as internal errors
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

func (m *MockAccountService) Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, in)
	}
	return nil, errNotConfigured
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, errNotConfigured
}

func (m *MockAccountService) FederatedLogin(ctx context.Context, assertion string) (*domain.AuthResult, error) {
	if m.FederatedLoginFunc != nil {
		return m.FederatedLoginFunc(ctx, assertion)
	}
	return nil, errNotConfigured
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, accountID, update)
	}
	return nil, errNotConfigured
}

func (m *MockAccountService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, accountID)
	}
	return nil, errNotConfigured
}

func (m *MockAccountService) BeginPaymentOnboarding(ctx context.Context, accountID string, in domain.PaymentInput) (*domain.PaymentProfile, error) {
	if m.BeginPaymentOnboardingFunc != nil {
		return m.BeginPaymentOnboardingFunc(ctx, accountID, in)
	}
	return nil, errNotConfigured
}

func (m *MockAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return errNotConfigured
}

func (m *MockAccountService) CompletePasswordReset(ctx context.Context, token, newPassword string) (*domain.AuthResult, error) {
	if m.CompletePasswordResetFunc != nil {
		return m.CompletePasswordResetFunc(ctx, token, newPassword)
	}
	return nil, errNotConfigured
}
