package services

import (
	"testing"
	"time"

	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/logging"
	"github.com/you/allospace/internal/mocks"
)

// testDeps bundles the mocks behind an AccountServiceImpl under test
type testDeps struct {
	accounts  *mocks.MockAccountRepository
	listings  *mocks.MockListingRepository
	passwords *mocks.MockPasswordService
	tokens    *mocks.MockTokenService
	resets    *mocks.MockResetTokenService
	identity  *mocks.MockIdentityVerifier
	notifier  *mocks.MockNotificationService
	payments  *mocks.MockPaymentProvider
	throttle  *mocks.MockResetThrottle
	audit     *mocks.MockAuditLogger
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// createAccountServiceForTest creates an AccountServiceImpl with mock dependencies and a fixed clock
func createAccountServiceForTest(t *testing.T) (*AccountServiceImpl, *testDeps) {
	t.Helper()

	d := &testDeps{
		accounts:  mocks.NewMockAccountRepository(),
		listings:  mocks.NewMockListingRepository(),
		passwords: mocks.NewMockPasswordService(),
		tokens:    mocks.NewMockTokenService(),
		resets:    mocks.NewMockResetTokenService(),
		identity:  mocks.NewMockIdentityVerifier(),
		notifier:  mocks.NewMockNotificationService(),
		payments:  mocks.NewMockPaymentProvider(),
		throttle:  mocks.NewMockResetThrottle(),
		audit:     mocks.NewMockAuditLogger(),
	}

	svc := NewAccountService(Dependencies{
		Accounts:  d.accounts,
		Listings:  d.listings,
		Passwords: d.passwords,
		Tokens:    d.tokens,
		Resets:    d.resets,
		Identity:  d.identity,
		Notifier:  d.notifier,
		Payments:  d.payments,
		Throttle:  d.throttle,
		Audit:     d.audit,
		Logger:    logging.Discard(),
	}, AccountConfig{
		FrontendURL:      "https://allospace.test/",
		ResetTokenTTL:    10 * time.Minute,
		PercentageCharge: 5,
	})
	svc.now = func() time.Time { return testNow }
	return svc, d
}

const testAccountID = "6f1c1f7e-2f6b-4d3c-9a47-1b2c3d4e5f60"

// createValidAccount creates a local customer account entity for testing
func createValidAccount(t *testing.T) *domain.Account {
	t.Helper()

	return &domain.Account{
		ID:           testAccountID,
		Email:        "ada@example.com",
		PasswordHash: "hashed_secret123",
		Name:         "Ada",
		Phone:        "+2348000000000",
		Address:      "1 Marina Road",
		Role:         domain.RoleCustomer,
		CreatedAt:    testNow.Add(-24 * time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	}
}

// createHostAccount creates a host account entity for testing
func createHostAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createValidAccount(t)
	account.CompanyName = "Ada Spaces"
	account.Role = domain.RoleHost
	return account
}

// createFederatedAccount creates an account with only a federated credential
func createFederatedAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createValidAccount(t)
	subject := "google-sub-1"
	account.GoogleID = &subject
	account.PasswordHash = ""
	return account
}

func strPtr(s string) *string { return &s }
