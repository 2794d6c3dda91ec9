package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/logging"
)

// AccountConfig carries the tunables of the account lifecycle
type AccountConfig struct {
	FrontendURL      string
	ResetTokenTTL    time.Duration
	PercentageCharge float64
}

// Dependencies are the collaborators of AccountServiceImpl.
// Throttle may be nil to disable reset throttling.
type Dependencies struct {
	Accounts  domain.AccountRepository
	Listings  domain.ListingRepository
	Passwords domain.PasswordService
	Tokens    domain.TokenService
	Resets    domain.ResetTokenService
	Identity  domain.IdentityVerifier
	Notifier  domain.NotificationService
	Payments  domain.PaymentProvider
	Throttle  domain.ResetThrottle
	Audit     domain.AuditLogger
	Logger    logging.Logger
}

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	accounts  domain.AccountRepository
	listings  domain.ListingRepository
	passwords domain.PasswordService
	tokens    domain.TokenService
	resets    domain.ResetTokenService
	identity  domain.IdentityVerifier
	notifier  domain.NotificationService
	payments  domain.PaymentProvider
	throttle  domain.ResetThrottle
	audit     domain.AuditLogger
	log       logging.Logger
	cfg       AccountConfig
	now       func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(deps Dependencies, cfg AccountConfig) *AccountServiceImpl {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	audit := deps.Audit
	if audit == nil {
		audit = logging.NewAuditLogger(log)
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 10 * time.Minute
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	return &AccountServiceImpl{
		accounts:  deps.Accounts,
		listings:  deps.Listings,
		passwords: deps.Passwords,
		tokens:    deps.Tokens,
		resets:    deps.Resets,
		identity:  deps.Identity,
		notifier:  deps.Notifier,
		payments:  deps.Payments,
		throttle:  deps.Throttle,
		audit:     audit,
		log:       log.With("component", "account_service"),
		cfg:       cfg,
		now:       time.Now,
	}
}

var _ domain.AccountService = (*AccountServiceImpl)(nil)

// Signup implements domain.AccountService
func (s *AccountServiceImpl) Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.NewValidationError("Please provide an email and password")
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrAccountExists
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, pkgerrors.Wrap(err, "lookup account by email")
	}

	hash, err := s.passwords.Hash(ctx, in.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Address:      strings.TrimSpace(in.Address),
		Country:      strings.TrimSpace(in.Country),
		City:         strings.TrimSpace(in.City),
		Role:         domain.RoleFor(in.CompanyName),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// a concurrent signup can still win the unique index
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "create account")
	}

	result, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.NewAuditEvent(domain.AccountSignupEvent, account.ID).
		WithEmail(account.Email).
		With("role", string(account.Role)))
	return result, nil
}

// Login implements domain.AccountService
func (s *AccountServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("All fields are required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.record(ctx, domain.NewAuditEvent(domain.AccountLoginFailureEvent, "").WithEmail(email).Failed(err))
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "lookup account by email")
	}

	// federated-only accounts have no hash and never verify
	if !s.passwords.Verify(ctx, account.PasswordHash, password) {
		s.record(ctx, domain.NewAuditEvent(domain.AccountLoginFailureEvent, account.ID).
			WithEmail(email).
			Failed(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.NewAuditEvent(domain.AccountLoginEvent, account.ID).WithEmail(email))
	return result, nil
}

// FederatedLogin implements domain.AccountService.
// Lookup order: federated subject, then email (linking a local account), then create.
func (s *AccountServiceImpl) FederatedLogin(ctx context.Context, assertion string) (*domain.AuthResult, error) {
	identity, err := s.identity.Verify(ctx, assertion)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidAssertion) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidAssertion, err)
		}
		return nil, err
	}

	account, err := s.accounts.FindByGoogleID(ctx, identity.Subject)
	if err == nil {
		return s.federatedResult(ctx, account, domain.AccountFederatedLoginEvent)
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, pkgerrors.Wrap(err, "lookup account by google id")
	}

	// an unverified email can neither claim a local account nor open a new one
	if !identity.EmailVerified {
		return nil, fmt.Errorf("%w: email %q is not verified", domain.ErrInvalidAssertion, identity.Email)
	}

	existing, err := s.accounts.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if existing.IsFederated() {
			// same email already bound to another external subject
			return nil, domain.ErrAccountExists
		}
		avatar := ""
		if existing.Avatar == "" {
			avatar = identity.AvatarURL
		}
		linked, err := s.accounts.LinkGoogleID(ctx, existing.ID, identity.Subject, avatar)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateField) || errors.Is(err, domain.ErrAccountNotFound) {
				return nil, err
			}
			return nil, pkgerrors.Wrap(err, "link google id")
		}
		return s.federatedResult(ctx, linked, domain.AccountLinkedEvent)
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, pkgerrors.Wrap(err, "lookup account by email")
	}

	subject := identity.Subject
	account = &domain.Account{
		Email:    identity.Email,
		GoogleID: &subject,
		Name:     identity.Name,
		Avatar:   identity.AvatarURL,
		Role:     domain.RoleCustomer,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if !errors.Is(err, domain.ErrAccountExists) {
			return nil, pkgerrors.Wrap(err, "create federated account")
		}
		// lost a race with a concurrent first login
		account, err = s.accounts.FindByGoogleID(ctx, subject)
		if err != nil {
			return nil, domain.ErrAccountExists
		}
	}
	return s.federatedResult(ctx, account, domain.AccountFederatedLoginEvent)
}

func (s *AccountServiceImpl) federatedResult(ctx context.Context, account *domain.Account, event domain.AuditEventType) (*domain.AuthResult, error) {
	result, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.NewAuditEvent(event, account.ID).WithEmail(account.Email))
	return result, nil
}

// UpdateProfile implements domain.AccountService
func (s *AccountServiceImpl) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	prior, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, passThrough(err, "load account")
	}

	updated, err := s.accounts.UpdateProfile(ctx, accountID, update)
	if err != nil {
		return nil, passThrough(err, "update profile")
	}

	addressMoved := update.Address != nil && prior.Address != "" && *update.Address != prior.Address
	if addressMoved {
		s.propagateAddress(ctx, accountID, prior.Address, *update.Address)
	}

	s.record(ctx, domain.NewAuditEvent(domain.ProfileUpdatedEvent, accountID).
		With("address_changed", addressMoved))
	return updated.Sanitized(), nil
}

// propagateAddress is best-effort: the profile update has already committed
func (s *AccountServiceImpl) propagateAddress(ctx context.Context, accountID, oldAddress, newAddress string) {
	n, err := s.listings.UpdateAddress(ctx, oldAddress, newAddress)
	if err != nil {
		s.log.Error(ctx, "listing address propagation failed",
			"account_id", accountID,
			"error", err,
		)
		return
	}
	s.log.Debug(ctx, "listing addresses propagated", "account_id", accountID, "listings", n)
}

// GetProfile implements domain.AccountService
func (s *AccountServiceImpl) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, passThrough(err, "load account")
	}
	return account.Sanitized(), nil
}

// BeginPaymentOnboarding implements domain.AccountService.
// Nothing is persisted unless the provider returns a subaccount code.
func (s *AccountServiceImpl) BeginPaymentOnboarding(ctx context.Context, accountID string, in domain.PaymentInput) (*domain.PaymentProfile, error) {
	if msgs := validatePaymentInput(in); len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, passThrough(err, "load account")
	}

	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		email = account.Email
	}
	sub, err := s.payments.CreateSubaccount(ctx, domain.SubaccountRequest{
		BusinessName:     in.BusinessName,
		Email:            email,
		SettlementBank:   in.BankName,
		AccountNumber:    in.AccountNumber,
		PercentageCharge: s.cfg.PercentageCharge,
	})
	if err == nil && (sub == nil || sub.Code == "") {
		err = fmt.Errorf("%w: missing subaccount code", domain.ErrProviderFailure)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrProviderFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
		}
		s.record(ctx, domain.NewAuditEvent(domain.PaymentOnboardFailEvent, accountID).Failed(err))
		return nil, pkgerrors.WithStack(err)
	}

	updated, err := s.accounts.SetPaymentProfile(ctx, accountID, domain.PaymentProfile{
		BusinessName:  in.BusinessName,
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
		SubaccountID:  sub.Code,
	})
	if err != nil {
		return nil, passThrough(err, "save payment profile")
	}

	s.record(ctx, domain.NewAuditEvent(domain.PaymentOnboardedEvent, accountID).
		With("subaccount", sub.Code))
	return updated.Payment, nil
}

func validatePaymentInput(in domain.PaymentInput) []string {
	var msgs []string
	if strings.TrimSpace(in.BusinessName) == "" {
		msgs = append(msgs, "Please provide a business name")
	}
	if strings.TrimSpace(in.BankName) == "" {
		msgs = append(msgs, "Please provide a bank")
	}
	if strings.TrimSpace(in.AccountNumber) == "" {
		msgs = append(msgs, "Please provide an account number")
	}
	return msgs
}

// issue mints a session token for account
func (s *AccountServiceImpl) issue(account *domain.Account) (*domain.AuthResult, error) {
	token, expiresAt, err := s.tokens.Mint(account.ID, account.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "mint session token")
	}
	return &domain.AuthResult{
		Account:   account.Sanitized(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AccountServiceImpl) record(ctx context.Context, event *domain.AuditEvent) {
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.log.Warn(ctx, "audit event dropped", "event_type", string(event.EventType), "error", err)
	}
}

// passThrough keeps domain faults as they are and attaches a stack to anything else
func passThrough(err error, op string) error {
	var validation *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrMalformedID),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrDuplicateField),
		errors.As(err, &validation):
		return err
	}
	return pkgerrors.Wrap(err, op)
}
