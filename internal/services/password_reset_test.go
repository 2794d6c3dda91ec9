package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/allospace/domain"
)

func TestAccountServiceImpl_RequestPasswordReset(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMocks    func(*testDeps)
		expectedError error
		validate      func(t *testing.T, d *testDeps, stored []*domain.ResetCredential)
	}{
		{
			name:  "stores the hash and emails the plaintext link",
			email: "ADA@example.com",
			validate: func(t *testing.T, d *testDeps, stored []*domain.ResetCredential) {
				require.Len(t, stored, 1)
				require.NotNil(t, stored[0])
				assert.Equal(t, "hash:reset_1", stored[0].TokenHash, "only the hash is persisted")
				assert.Equal(t, testNow.Add(10*time.Minute), stored[0].ExpiresAt)

				email := d.notifier.LastEmail()
				require.NotNil(t, email)
				assert.Equal(t, "ada@example.com", email.To)
				assert.Equal(t, "Password Reset Request", email.Subject)
				assert.Contains(t, email.Text, "https://allospace.test/passwordreset/reset_1")
				assert.Contains(t, email.HTML, "https://allospace.test/passwordreset/reset_1")
				assert.False(t, strings.Contains(email.Text, "hash:"), "email must carry the plaintext token")
				assert.Empty(t, d.throttle.Released)
			},
		},
		{
			name:          "unknown email is reported",
			email:         "nobody@example.com",
			expectedError: domain.ErrAccountNotFound,
			setupMocks: func(d *testDeps) {
				d.accounts.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
					return nil, domain.ErrAccountNotFound
				}
			},
		},
		{
			name:  "delivery failure rolls the credential back",
			email: "ada@example.com",
			setupMocks: func(d *testDeps) {
				d.notifier.SendEmailFunc = func(ctx context.Context, msg domain.EmailMessage) error {
					return errors.New("smtp: 421 service not available")
				}
			},
			expectedError: domain.ErrDeliveryFailed,
			validate: func(t *testing.T, d *testDeps, stored []*domain.ResetCredential) {
				require.Len(t, stored, 2)
				assert.NotNil(t, stored[0])
				assert.Nil(t, stored[1], "second write must clear the reset fields")
				assert.Equal(t, []string{testAccountID}, d.throttle.Released)
				assert.Equal(t, []domain.AuditEventType{domain.PasswordResetDeliveryFail}, d.audit.Types())
			},
		},
		{
			name:  "throttled while a request is in flight",
			email: "ada@example.com",
			setupMocks: func(d *testDeps) {
				d.throttle.AcquireFunc = func(ctx context.Context, accountID string) (bool, time.Duration, error) {
					return false, 42 * time.Second, nil
				}
			},
			expectedError: domain.ErrResetThrottled,
			validate: func(t *testing.T, d *testDeps, stored []*domain.ResetCredential) {
				assert.Empty(t, stored)
				assert.Nil(t, d.notifier.LastEmail())
			},
		},
		{
			name:  "throttle store outage does not block resets",
			email: "ada@example.com",
			setupMocks: func(d *testDeps) {
				d.throttle.AcquireFunc = func(ctx context.Context, accountID string) (bool, time.Duration, error) {
					return false, 0, errors.New("redis down")
				}
			},
			validate: func(t *testing.T, d *testDeps, stored []*domain.ResetCredential) {
				assert.Len(t, stored, 1)
				assert.NotNil(t, d.notifier.LastEmail())
			},
		},
		{
			name:          "empty email",
			email:         "  ",
			expectedError: &domain.ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := createAccountServiceForTest(t)
			d.accounts.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
				return createValidAccount(t), nil
			}
			var stored []*domain.ResetCredential
			d.accounts.SetResetCredentialFunc = func(ctx context.Context, id string, cred *domain.ResetCredential) error {
				assert.Equal(t, testAccountID, id)
				stored = append(stored, cred)
				return nil
			}
			if tt.setupMocks != nil {
				tt.setupMocks(d)
			}

			err := svc.RequestPasswordReset(context.Background(), tt.email)
			if tt.expectedError != nil {
				var validation *domain.ValidationError
				if errors.As(tt.expectedError, &validation) {
					assert.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
				} else {
					assert.ErrorIs(t, err, tt.expectedError)
				}
			} else {
				require.NoError(t, err)
			}
			if tt.validate != nil {
				tt.validate(t, d, stored)
			}
		})
	}
}

func TestAccountServiceImpl_CompletePasswordReset(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		password      string
		setupMocks    func(*testDeps)
		expectedError error
		expectSMS     bool
	}{
		{
			name:     "valid token replaces the password",
			token:    "reset_1",
			password: "newsecret1",
			setupMocks: func(d *testDeps) {
				d.accounts.ConsumeResetTokenFunc = func(ctx context.Context, id, tokenHash, passwordHash string) error {
					assert.Equal(t, testAccountID, id)
					assert.Equal(t, "hash:reset_1", tokenHash)
					assert.Equal(t, "hashed_newsecret1", passwordHash)
					return nil
				}
			},
			expectSMS: true,
		},
		{
			name:     "unknown or expired token",
			token:    "reset_1",
			password: "newsecret1",
			setupMocks: func(d *testDeps) {
				d.accounts.FindByResetTokenFunc = func(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
					return nil, domain.ErrAccountNotFound
				}
			},
			expectedError: domain.ErrInvalidResetToken,
		},
		{
			name:     "token consumed concurrently",
			token:    "reset_1",
			password: "newsecret1",
			setupMocks: func(d *testDeps) {
				d.accounts.ConsumeResetTokenFunc = func(ctx context.Context, id, tokenHash, passwordHash string) error {
					return domain.ErrInvalidResetToken
				}
			},
			expectedError: domain.ErrInvalidResetToken,
		},
		{
			name:     "sms failure is not fatal",
			token:    "reset_1",
			password: "newsecret1",
			setupMocks: func(d *testDeps) {
				d.notifier.SendSMSFunc = func(ctx context.Context, to, message string) error {
					return errors.New("twilio down")
				}
			},
		},
		{
			name:          "empty token",
			token:         "",
			password:      "newsecret1",
			expectedError: domain.ErrInvalidResetToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := createAccountServiceForTest(t)
			d.accounts.FindByResetTokenFunc = func(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
				assert.Equal(t, testNow, now, "expiry is checked against the service clock")
				if tokenHash != "hash:reset_1" {
					return nil, domain.ErrAccountNotFound
				}
				account := createValidAccount(t)
				account.Reset = &domain.ResetCredential{TokenHash: tokenHash, ExpiresAt: testNow.Add(5 * time.Minute)}
				return account, nil
			}
			if tt.setupMocks != nil {
				tt.setupMocks(d)
			}

			result, err := svc.CompletePasswordReset(context.Background(), tt.token, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			claims, err := d.tokens.Verify(result.Token)
			require.NoError(t, err)
			assert.Equal(t, testAccountID, claims.AccountID)
			assert.Nil(t, result.Account.Reset)
			assert.Empty(t, result.Account.PasswordHash)

			if tt.expectSMS {
				require.Len(t, d.notifier.SMS, 1)
				assert.Equal(t, "+2348000000000", d.notifier.SMS[0].To)
			}
			assert.Contains(t, d.audit.Types(), domain.PasswordResetCompleteEvent)
		})
	}
}

func TestAccountServiceImpl_CompletePasswordReset_MissingPassword(t *testing.T) {
	svc, _ := createAccountServiceForTest(t)

	_, err := svc.CompletePasswordReset(context.Background(), "reset_1", "")
	var validation *domain.ValidationError
	assert.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
}

func TestResetEmail_EscapesLink(t *testing.T) {
	msg := resetEmail("ada@example.com", `https://allospace.test/passwordreset/abc"><script>`)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "https://allospace.test/passwordreset/abc")
}
