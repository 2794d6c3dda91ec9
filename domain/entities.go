package domain

import (
	"strings"
	"time"
)

// Role is the marketplace role of an account
type Role string

const (
	RoleCustomer Role = "customer"
	RoleHost     Role = "host"
)

// RoleFor derives the role of a new account from the company name supplied at signup
func RoleFor(companyName string) Role {
	if strings.TrimSpace(companyName) != "" {
		return RoleHost
	}
	return RoleCustomer
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Account represents a marketplace user (customer or host).
// An account may carry a local password hash, a federated subject id, or both.
type Account struct {
	ID           string
	Email        string
	GoogleID     *string
	PasswordHash string
	Name         string
	Phone        string
	CompanyName  string
	Address      string
	Country      string
	City         string
	Avatar       string
	Role         Role
	Payment      *PaymentProfile
	Reset        *ResetCredential
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate with a local password
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// IsFederated reports whether the account is linked to an external identity
func (a *Account) IsFederated() bool {
	return a.GoogleID != nil && *a.GoogleID != ""
}

// Sanitized returns a copy without the password hash and reset credential
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.PasswordHash = ""
	out.Reset = nil
	if a.Payment != nil {
		p := *a.Payment
		out.Payment = &p
	}
	return &out
}

// PaymentProfile is present only after a successful payment onboarding
type PaymentProfile struct {
	BusinessName  string
	BankName      string
	AccountNumber string
	SubaccountID  string
}

// ResetCredential authorizes exactly one password change before ExpiresAt
type ResetCredential struct {
	TokenHash string
	ExpiresAt time.Time
}

// Expired reports whether the credential is no longer redeemable at now
func (r *ResetCredential) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// AuthResult represents authentication outcome
type AuthResult struct {
	Account   *Account
	Token     string
	ExpiresAt time.Time
}

// SignupInput carries the profile and password supplied at signup
type SignupInput struct {
	Name        string
	Phone       string
	CompanyName string
	Address     string
	Country     string
	City        string
	Email       string
	Password    string
}

// ProfileUpdate is a partial update; nil fields are left untouched
type ProfileUpdate struct {
	Name        *string
	Phone       *string
	CompanyName *string
	Address     *string
	Country     *string
	City        *string
	Avatar      *string
}

// Empty reports whether the update carries no field at all
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.CompanyName == nil &&
		u.Address == nil && u.Country == nil && u.City == nil && u.Avatar == nil
}

// PaymentInput is the settlement information supplied for payment onboarding
type PaymentInput struct {
	BusinessName  string
	Email         string
	BankName      string
	AccountNumber string
}

// SubaccountRequest is sent to the payment provider
type SubaccountRequest struct {
	BusinessName     string
	Email            string
	SettlementBank   string
	AccountNumber    string
	PercentageCharge float64
}

// Subaccount is the provider's answer to a subaccount registration
type Subaccount struct {
	Code string
}

// FederatedIdentity is the verified content of an external identity assertion
type FederatedIdentity struct {
	Subject       string
	Email         string
	Name          string
	AvatarURL     string
	EmailVerified bool
}

// EmailMessage is a transactional email
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Listing is the part of a space listing the identity core touches
type Listing struct {
	ID        string
	OwnerID   string
	Title     string
	Address   string
	CreatedAt time.Time
}
