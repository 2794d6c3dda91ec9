package domain

import (
	"testing"
	"time"
)

func TestRoleFor(t *testing.T) {
	tests := []struct {
		name        string
		companyName string
		expected    Role
	}{
		{name: "company name makes a host", companyName: "Acme Spaces", expected: RoleHost},
		{name: "no company name makes a customer", companyName: "", expected: RoleCustomer},
		{name: "blank company name makes a customer", companyName: "   ", expected: RoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleFor(tt.companyName); got != tt.expected {
				t.Errorf("expected role %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Errorf("expected %q, got %q", "a@x.com", got)
	}
}

func TestAccount_CredentialProofs(t *testing.T) {
	sub := "google-sub-1"
	tests := []struct {
		name          string
		account       *Account
		wantPassword  bool
		wantFederated bool
	}{
		{name: "local only", account: &Account{PasswordHash: "hash"}, wantPassword: true},
		{name: "federated only", account: &Account{GoogleID: &sub}, wantFederated: true},
		{name: "linked", account: &Account{PasswordHash: "hash", GoogleID: &sub}, wantPassword: true, wantFederated: true},
		{name: "neither", account: &Account{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.HasPassword(); got != tt.wantPassword {
				t.Errorf("HasPassword() = %v, want %v", got, tt.wantPassword)
			}
			if got := tt.account.IsFederated(); got != tt.wantFederated {
				t.Errorf("IsFederated() = %v, want %v", got, tt.wantFederated)
			}
		})
	}
}

func TestAccount_Sanitized(t *testing.T) {
	account := &Account{
		ID:           "id-1",
		Email:        "a@x.com",
		PasswordHash: "secret-hash",
		Reset:        &ResetCredential{TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour)},
		Payment:      &PaymentProfile{SubaccountID: "ACCT_1"},
	}

	clean := account.Sanitized()

	if clean.PasswordHash != "" {
		t.Error("sanitized account must not carry the password hash")
	}
	if clean.Reset != nil {
		t.Error("sanitized account must not carry the reset credential")
	}
	if account.PasswordHash == "" || account.Reset == nil {
		t.Error("original account must be left untouched")
	}
	clean.Payment.SubaccountID = "changed"
	if account.Payment.SubaccountID != "ACCT_1" {
		t.Error("payment profile must be copied, not shared")
	}
}

func TestResetCredential_Expired(t *testing.T) {
	now := time.Now()
	if (&ResetCredential{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Error("future expiry should not be expired")
	}
	if !(&ResetCredential{ExpiresAt: now}).Expired(now) {
		t.Error("expiry equal to now should be expired")
	}
}

func TestProfileUpdate_Empty(t *testing.T) {
	if !(ProfileUpdate{}).Empty() {
		t.Error("zero update should be empty")
	}
	addr := "1 Main St"
	if (ProfileUpdate{Address: &addr}).Empty() {
		t.Error("update with address should not be empty")
	}
}
