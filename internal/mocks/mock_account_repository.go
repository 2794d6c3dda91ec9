package mocks

import (
	"context"
	"time"

	"github.com/you/allospace/domain"
)

// MockAccountRepository implements domain.AccountRepository interface for testing
type MockAccountRepository struct {
	CreateFunc             func(ctx context.Context, account *domain.Account) error
	FindByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	FindByEmailFunc        func(ctx context.Context, email string) (*domain.Account, error)
	FindByGoogleIDFunc     func(ctx context.Context, subject string) (*domain.Account, error)
	FindByResetTokenFunc   func(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error)
	UpdateProfileFunc      func(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error)
	LinkGoogleIDFunc       func(ctx context.Context, id, subject, avatar string) (*domain.Account, error)
	SetPaymentProfileFunc  func(ctx context.Context, id string, profile domain.PaymentProfile) (*domain.Account, error)
	SetResetCredentialFunc func(ctx context.Context, id string, cred *domain.ResetCredential) error
	ConsumeResetTokenFunc  func(ctx context.Context, id, tokenHash, passwordHash string) error
}

// Compile-time interface compliance verification
var _ domain.AccountRepository = (*MockAccountRepository)(nil)

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	// Default behavior: success with a fixed id
	if account.ID == "" {
		account.ID = "00000000-0000-4000-8000-000000000001"
	}
	return nil
}

// FindByID finds an account by ID
func (m *MockAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

// FindByEmail finds an account by email
func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrAccountNotFound
}

// FindByGoogleID finds an account by federated subject
func (m *MockAccountRepository) FindByGoogleID(ctx context.Context, subject string) (*domain.Account, error) {
	if m.FindByGoogleIDFunc != nil {
		return m.FindByGoogleIDFunc(ctx, subject)
	}
	return nil, domain.ErrAccountNotFound
}

// FindByResetToken finds an account holding an unexpired reset token hash
func (m *MockAccountRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, tokenHash, now)
	}
	return nil, domain.ErrAccountNotFound
}

// UpdateProfile applies a partial profile update
func (m *MockAccountRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	return nil, domain.ErrAccountNotFound
}

// LinkGoogleID attaches a federated subject to an account
func (m *MockAccountRepository) LinkGoogleID(ctx context.Context, id, subject, avatar string) (*domain.Account, error) {
	if m.LinkGoogleIDFunc != nil {
		return m.LinkGoogleIDFunc(ctx, id, subject, avatar)
	}
	return nil, domain.ErrAccountNotFound
}

// SetPaymentProfile stores the payment profile
func (m *MockAccountRepository) SetPaymentProfile(ctx context.Context, id string, profile domain.PaymentProfile) (*domain.Account, error) {
	if m.SetPaymentProfileFunc != nil {
		return m.SetPaymentProfileFunc(ctx, id, profile)
	}
	return &domain.Account{ID: id, Payment: &profile}, nil
}

// SetResetCredential stores or clears the reset credential
func (m *MockAccountRepository) SetResetCredential(ctx context.Context, id string, cred *domain.ResetCredential) error {
	if m.SetResetCredentialFunc != nil {
		return m.SetResetCredentialFunc(ctx, id, cred)
	}
	return nil
}

// ConsumeResetToken replaces the password if the token hash still matches
func (m *MockAccountRepository) ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string) error {
	if m.ConsumeResetTokenFunc != nil {
		return m.ConsumeResetTokenFunc(ctx, id, tokenHash, passwordHash)
	}
	return nil
}
