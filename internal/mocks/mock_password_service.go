package mocks

import (
	"context"
	"strings"

	"github.com/you/allospace/domain"
)

const fakeHashPrefix = "hashed_"

// MockPasswordService hashes by prefixing, so tests can assert on stored hashes
// without paying for bcrypt
type MockPasswordService struct {
	HashFunc func(ctx context.Context, password string) (string, error)
}

var _ domain.PasswordService = (*MockPasswordService)(nil)

func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(ctx, password)
	}
	return fakeHashPrefix + password, nil
}

func (m *MockPasswordService) Verify(_ context.Context, hashedPassword, password string) bool {
	plain, ok := strings.CutPrefix(hashedPassword, fakeHashPrefix)
	return ok && plain == password
}
