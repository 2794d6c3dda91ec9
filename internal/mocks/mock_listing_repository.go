package mocks

import (
	"context"

	"github.com/you/allospace/domain"
)

// MockListingRepository implements domain.ListingRepository interface for testing
type MockListingRepository struct {
	CreateFunc        func(ctx context.Context, listing *domain.Listing) error
	UpdateAddressFunc func(ctx context.Context, oldAddress, newAddress string) (int64, error)

	// AddressUpdates records every UpdateAddress call as {old, new}
	AddressUpdates [][2]string
}

var _ domain.ListingRepository = (*MockListingRepository)(nil)

func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{}
}

// Create stores a listing
func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, listing)
	}
	return nil
}

// UpdateAddress moves every listing at oldAddress to newAddress
func (m *MockListingRepository) UpdateAddress(ctx context.Context, oldAddress, newAddress string) (int64, error) {
	m.AddressUpdates = append(m.AddressUpdates, [2]string{oldAddress, newAddress})
	if m.UpdateAddressFunc != nil {
		return m.UpdateAddressFunc(ctx, oldAddress, newAddress)
	}
	return 0, nil
}
