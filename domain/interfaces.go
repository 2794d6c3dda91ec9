package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations.
// Every mutating method is a single-document atomic update.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByGoogleID(ctx context.Context, subject string) (*Account, error)
	// FindByResetToken matches the stored token hash and requires the expiry to be after now
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*Account, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Account, error)
	LinkGoogleID(ctx context.Context, id, subject, avatar string) (*Account, error)
	SetPaymentProfile(ctx context.Context, id string, profile PaymentProfile) (*Account, error)
	// SetResetCredential stores cred, or clears both reset fields when cred is nil
	SetResetCredential(ctx context.Context, id string, cred *ResetCredential) error
	// ConsumeResetToken replaces the password hash and clears the reset fields,
	// but only while the stored token hash still equals tokenHash
	ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string) error
}

// ListingRepository is the part of the listings collaborator used by profile updates
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	UpdateAddress(ctx context.Context, oldAddress, newAddress string) (int64, error)
}

// AccountService defines the account lifecycle business logic
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	FederatedLogin(ctx context.Context, assertion string) (*AuthResult, error)
	UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error)
	GetProfile(ctx context.Context, accountID string) (*Account, error)
	BeginPaymentOnboarding(ctx context.Context, accountID string, in PaymentInput) (*PaymentProfile, error)
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, token, newPassword string) (*AuthResult, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, hashedPassword, password string) bool
}

// TokenService defines session token operations
type TokenService interface {
	Mint(accountID string, role Role) (string, time.Time, error)
	Verify(token string) (*TokenClaims, error)
}

// ResetTokenService generates password reset tokens
type ResetTokenService interface {
	// Generate returns the plaintext token (sent once to the user) and its storage hash
	Generate() (plain string, hash string, err error)
	Hash(plain string) string
}

// IdentityVerifier verifies third-party identity assertions
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (*FederatedIdentity, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// PaymentProvider registers settlement subaccounts with the payment processor
type PaymentProvider interface {
	CreateSubaccount(ctx context.Context, req SubaccountRequest) (*Subaccount, error)
}

// ResetThrottle limits how often a reset can be requested for one account
type ResetThrottle interface {
	// Acquire returns false and the remaining wait when a request is already in flight
	Acquire(ctx context.Context, accountID string) (bool, time.Duration, error)
	Release(ctx context.Context, accountID string) error
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	ID        string `json:"jti"`
	AccountID string `json:"user_id"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
