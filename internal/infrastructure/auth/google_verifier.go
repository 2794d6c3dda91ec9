package auth

import (
	"context"
	"fmt"

	"github.com/you/allospace/domain"
	"google.golang.org/api/idtoken"
)

// ValidateFunc matches idtoken.Validate
type ValidateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier implements domain.IdentityVerifier for Google ID tokens
type GoogleVerifier struct {
	clientID string
	validate ValidateFunc
}

// NewGoogleVerifier verifies signature, expiry, issuer and audience through idtoken.Validate
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// NewGoogleVerifierWithValidator swaps the validation call; used by tests
func NewGoogleVerifierWithValidator(clientID string, validate ValidateFunc) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: validate}
}

// Verify implements domain.IdentityVerifier
func (g *GoogleVerifier) Verify(ctx context.Context, assertion string) (*domain.FederatedIdentity, error) {
	if assertion == "" || g.clientID == "" {
		return nil, domain.ErrInvalidAssertion
	}

	payload, err := g.validate(ctx, assertion, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAssertion, err)
	}
	if payload == nil || payload.Subject == "" || payload.Audience != g.clientID {
		return nil, domain.ErrInvalidAssertion
	}

	identity := &domain.FederatedIdentity{
		Subject:       payload.Subject,
		Email:         domain.NormalizeEmail(stringClaim(payload.Claims, "email")),
		Name:          stringClaim(payload.Claims, "name"),
		AvatarURL:     stringClaim(payload.Claims, "picture"),
		EmailVerified: boolClaim(payload.Claims, "email_verified"),
	}
	if identity.Email == "" {
		return nil, domain.ErrInvalidAssertion
	}
	return identity, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

func boolClaim(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

var _ domain.IdentityVerifier = (*GoogleVerifier)(nil)
