package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/you/allospace/domain"
)

const (
	resetEmailSubject   = "Password Reset Request"
	passwordChangedText = "Your allospace password was just changed. If this wasn't you, reset it immediately."
)

// RequestPasswordReset implements domain.AccountService.
// Unknown emails are reported as not found.
func (s *AccountServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.NewValidationError("Please provide an email")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return passThrough(err, "lookup account by email")
	}

	if s.throttle != nil {
		ok, wait, err := s.throttle.Acquire(ctx, account.ID)
		switch {
		case err != nil:
			// throttle store unavailable; carry on unthrottled
			s.log.Warn(ctx, "reset throttle unavailable", "account_id", account.ID, "error", err)
		case !ok:
			return fmt.Errorf("%w (retry in %s)", domain.ErrResetThrottled, wait.Round(time.Second))
		}
	}

	plain, hash, err := s.resets.Generate()
	if err != nil {
		s.releaseThrottle(ctx, account.ID)
		return pkgerrors.Wrap(err, "generate reset token")
	}

	cred := &domain.ResetCredential{TokenHash: hash, ExpiresAt: s.now().Add(s.cfg.ResetTokenTTL)}
	if err := s.accounts.SetResetCredential(ctx, account.ID, cred); err != nil {
		s.releaseThrottle(ctx, account.ID)
		return passThrough(err, "store reset credential")
	}

	if err := s.notifier.SendEmail(ctx, resetEmail(account.Email, s.resetURL(plain))); err != nil {
		// roll back so an undelivered token cannot be redeemed
		if rbErr := s.accounts.SetResetCredential(ctx, account.ID, nil); rbErr != nil {
			s.log.Error(ctx, "reset credential rollback failed", "account_id", account.ID, "error", rbErr)
		}
		s.releaseThrottle(ctx, account.ID)
		s.record(ctx, domain.NewAuditEvent(domain.PasswordResetDeliveryFail, account.ID).WithEmail(account.Email).Failed(err))
		return pkgerrors.WithStack(fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err))
	}

	s.record(ctx, domain.NewAuditEvent(domain.PasswordResetRequestEvent, account.ID).WithEmail(account.Email))
	return nil
}

// CompletePasswordReset implements domain.AccountService
func (s *AccountServiceImpl) CompletePasswordReset(ctx context.Context, token, newPassword string) (*domain.AuthResult, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}
	if newPassword == "" {
		return nil, domain.NewValidationError("Please provide a password")
	}

	tokenHash := s.resets.Hash(token)
	account, err := s.accounts.FindByResetToken(ctx, tokenHash, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, pkgerrors.Wrap(err, "lookup reset token")
	}

	passwordHash, err := s.passwords.Hash(ctx, newPassword)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	// conditional on the token hash, so two concurrent redemptions cannot both succeed
	if err := s.accounts.ConsumeResetToken(ctx, account.ID, tokenHash, passwordHash); err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "consume reset token")
	}
	account.PasswordHash = passwordHash
	account.Reset = nil

	result, err := s.issue(account)
	if err != nil {
		return nil, err
	}

	if account.Phone != "" {
		if err := s.notifier.SendSMS(ctx, account.Phone, passwordChangedText); err != nil {
			s.log.Warn(ctx, "password change notice not delivered", "account_id", account.ID, "error", err)
		}
	}

	s.record(ctx, domain.NewAuditEvent(domain.PasswordResetCompleteEvent, account.ID).WithEmail(account.Email))
	return result, nil
}

func (s *AccountServiceImpl) resetURL(plain string) string {
	return s.cfg.FrontendURL + "/passwordreset/" + plain
}

func (s *AccountServiceImpl) releaseThrottle(ctx context.Context, accountID string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Release(ctx, accountID); err != nil {
		s.log.Warn(ctx, "reset throttle release failed", "account_id", accountID, "error", err)
	}
}

func resetEmail(to, resetURL string) domain.EmailMessage {
	escaped := html.EscapeString(resetURL)
	return domain.EmailMessage{
		To:      to,
		Subject: resetEmailSubject,
		Text:    "To reset your password, use the following link: " + resetURL,
		HTML: "<h1>You have requested a password reset</h1>\n" +
			"<p>Please use the following link to reset your password:</p>\n" +
			`<a href="` + escaped + `" clicktracking=off>` + escaped + "</a>\n",
	}
}
