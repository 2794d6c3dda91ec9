package mocks

import (
	"context"

	"github.com/you/allospace/domain"
)

// MockPaymentProvider implements domain.PaymentProvider interface for testing
type MockPaymentProvider struct {
	CreateSubaccountFunc func(ctx context.Context, req domain.SubaccountRequest) (*domain.Subaccount, error)
	Requests             []domain.SubaccountRequest
}

var _ domain.PaymentProvider = (*MockPaymentProvider)(nil)

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

// CreateSubaccount registers a settlement subaccount
func (m *MockPaymentProvider) CreateSubaccount(ctx context.Context, req domain.SubaccountRequest) (*domain.Subaccount, error) {
	m.Requests = append(m.Requests, req)
	if m.CreateSubaccountFunc != nil {
		return m.CreateSubaccountFunc(ctx, req)
	}
	return &domain.Subaccount{Code: "ACCT_mock"}, nil
}
