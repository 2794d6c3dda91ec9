package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/mocks"
)

// Example demonstrating how the mocks combine in table-driven tests
func TestMockUsageExample(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(*mocks.MockAccountRepository, *mocks.MockPasswordService)
		expectedError error
	}{
		{
			name:     "credentials verify",
			email:    "user@example.com",
			password: "validpassword",
			setupMocks: func(repo *mocks.MockAccountRepository, pwd *mocks.MockPasswordService) {
				repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return &domain.Account{ID: "acc-1", Email: email, PasswordHash: "hashed_validpassword"}, nil
				}
			},
		},
		{
			name:          "unknown email",
			email:         "nobody@example.com",
			password:      "x",
			setupMocks:    func(*mocks.MockAccountRepository, *mocks.MockPasswordService) {},
			expectedError: domain.ErrAccountNotFound,
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "nope",
			setupMocks: func(repo *mocks.MockAccountRepository, pwd *mocks.MockPasswordService) {
				repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return &domain.Account{ID: "acc-1", PasswordHash: "hashed_validpassword"}, nil
				}
			},
			expectedError: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			pwd := mocks.NewMockPasswordService()
			tt.setupMocks(repo, pwd)

			err := checkCredentials(context.Background(), repo, pwd, tt.email, tt.password)
			if !errors.Is(err, tt.expectedError) {
				t.Errorf("expected %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func checkCredentials(ctx context.Context, repo domain.AccountRepository, pwd domain.PasswordService, email, password string) error {
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !pwd.Verify(ctx, account.PasswordHash, password) {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func TestMockTokenService_RoundTrip(t *testing.T) {
	svc := mocks.NewMockTokenService()

	t1, _, err := svc.Mint("acc-1", domain.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}
	t2, _, _ := svc.Mint("acc-1", domain.RoleCustomer)
	if t1 == t2 {
		t.Error("default mock tokens must be distinct")
	}

	claims, err := svc.Verify(t1)
	if err != nil || claims.AccountID != "acc-1" {
		t.Errorf("Verify(%q) = %+v, %v", t1, claims, err)
	}
	if _, err := svc.Verify("forged"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestMockNotificationService_RecordsOnlySuccess(t *testing.T) {
	n := mocks.NewMockNotificationService()
	ctx := context.Background()

	_ = n.SendEmail(ctx, domain.EmailMessage{To: "a@example.com"})
	n.SendEmailFunc = func(ctx context.Context, msg domain.EmailMessage) error { return errors.New("smtp down") }
	if err := n.SendEmail(ctx, domain.EmailMessage{To: "b@example.com"}); err == nil {
		t.Fatal("expected configured failure")
	}

	if len(n.Emails) != 1 || n.LastEmail().To != "a@example.com" {
		t.Errorf("expected only the successful email to be recorded, got %+v", n.Emails)
	}
}
