package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Account errors
var (
	ErrAccountNotFound    = errors.New("user not found")
	ErrAccountExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateField     = errors.New("duplicate field value")
	ErrMalformedID        = errors.New("malformed resource identifier")
)

// Token errors
var (
	ErrTokenInvalid     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrMissingToken     = errors.New("authentication token required")
	ErrInvalidAssertion = errors.New("invalid identity assertion")
)

// Password reset errors
var (
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetThrottled    = errors.New("password reset already requested, try again later")
	ErrDeliveryFailed    = errors.New("email could not be sent")
)

// Collaborator errors
var (
	ErrProviderFailure = errors.New("payment provider failure")
	ErrRouteNotFound   = errors.New("resource not found")
	ErrForbidden       = errors.New("access denied")
)

// ErrorKind is the normalized category of a fault
type ErrorKind string

const (
	KindConflict        ErrorKind = "Conflict"
	KindValidation      ErrorKind = "ValidationFailed"
	KindNotFound        ErrorKind = "NotFound"
	KindUnauthorized    ErrorKind = "Unauthorized"
	KindInvalidToken    ErrorKind = "InvalidOrExpiredToken"
	KindDelivery        ErrorKind = "DeliveryError"
	KindProvider        ErrorKind = "ProviderError"
	KindTooManyRequests ErrorKind = "TooManyRequests"
	KindForbidden       ErrorKind = "Forbidden"
	KindInternal        ErrorKind = "InternalError"
)

// ValidationError carries one message per invalid field
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from field messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// MalformedIDError reports an identifier that cannot name any resource
type MalformedIDError struct {
	Value string
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedID, e.Value)
}

func (e *MalformedIDError) Is(target error) bool {
	return target == ErrMalformedID
}

// BodyError reports a request body that could not be decoded or bound
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return "malformed request body: " + e.Err.Error()
}

func (e *BodyError) Unwrap() error { return e.Err }
