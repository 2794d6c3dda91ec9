package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const (
	msgDuplicate    = "Duplicate Field value entered or this company/user already exist"
	msgInvalidToken = "Invalid token, please log in again"
	msgServerError  = "Server Error"
)

// AppError is the normalized form of any fault that reaches the HTTP boundary
type AppError struct {
	Kind     domain.ErrorKind
	Status   int
	Message  string
	Messages []string
}

// Body returns the client-facing error value: a list for validation faults, a string otherwise
func (e *AppError) Body() interface{} {
	if len(e.Messages) > 0 {
		return e.Messages
	}
	return e.Message
}

// Classify maps err to exactly one fault kind. Unknown errors become a
// generic 500 so storage details never reach the client.
func Classify(err error) *AppError {
	var (
		validation *domain.ValidationError
		fieldErrs  validator.ValidationErrors
		malformed  *domain.MalformedIDError
		body       *domain.BodyError
	)

	switch {
	case err == nil:
		return &AppError{Kind: domain.KindInternal, Status: http.StatusInternalServerError, Message: msgServerError}

	case errors.Is(err, domain.ErrAccountExists):
		return &AppError{Kind: domain.KindConflict, Status: http.StatusBadRequest, Message: "User already exists"}
	case isDuplicate(err):
		return &AppError{Kind: domain.KindConflict, Status: http.StatusBadRequest, Message: msgDuplicate}

	case errors.As(err, &validation):
		return &AppError{Kind: domain.KindValidation, Status: http.StatusBadRequest, Messages: validation.Messages}
	case errors.As(err, &fieldErrs):
		return &AppError{Kind: domain.KindValidation, Status: http.StatusBadRequest, Messages: fieldMessages(fieldErrs)}
	case errors.As(err, &body):
		return &AppError{Kind: domain.KindValidation, Status: http.StatusBadRequest, Messages: []string{bodyMessage(body)}}

	case errors.As(err, &malformed):
		return &AppError{Kind: domain.KindNotFound, Status: http.StatusNotFound,
			Message: fmt.Sprintf("Resource not found with ID %s", malformed.Value)}
	case errors.Is(err, domain.ErrAccountNotFound):
		return &AppError{Kind: domain.KindNotFound, Status: http.StatusNotFound, Message: "User not found"}
	case errors.Is(err, domain.ErrRouteNotFound):
		return &AppError{Kind: domain.KindNotFound, Status: http.StatusNotFound, Message: "Resource not found"}

	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenMalformed):
		return &AppError{Kind: domain.KindUnauthorized, Status: http.StatusUnauthorized, Message: msgInvalidToken}
	case errors.Is(err, domain.ErrMissingToken):
		return &AppError{Kind: domain.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Not authorized, please log in"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &AppError{Kind: domain.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	case errors.Is(err, domain.ErrInvalidAssertion):
		return &AppError{Kind: domain.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid Google credential"}

	case errors.Is(err, domain.ErrInvalidResetToken):
		return &AppError{Kind: domain.KindInvalidToken, Status: http.StatusBadRequest, Message: "Invalid Token"}
	case errors.Is(err, domain.ErrDeliveryFailed):
		return &AppError{Kind: domain.KindDelivery, Status: http.StatusInternalServerError, Message: "Email could not be sent"}
	case errors.Is(err, domain.ErrProviderFailure):
		return &AppError{Kind: domain.KindProvider, Status: http.StatusInternalServerError, Message: "Failed to process payment"}
	case errors.Is(err, domain.ErrResetThrottled):
		return &AppError{Kind: domain.KindTooManyRequests, Status: http.StatusTooManyRequests, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return &AppError{Kind: domain.KindForbidden, Status: http.StatusForbidden, Message: "Access Denied"}
	}

	return &AppError{Kind: domain.KindInternal, Status: http.StatusInternalServerError, Message: msgServerError}
}

func isDuplicate(err error) bool {
	if errors.Is(err, domain.ErrDuplicateField) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}

// bodyMessage looks only at the decoder error
func bodyMessage(body *domain.BodyError) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(body.Err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	return "Request body must be valid JSON"
}

func fieldMessages(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			out = append(out, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return out
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func stackOf(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return strings.TrimSpace(fmt.Sprintf("%s%+v", err.Error(), st.StackTrace()))
	}
	return err.Error()
}

// ErrorHandler renders the last error recorded on the context. Panics are
// recovered and rendered as a 500. debug adds the error stack to the body.
func ErrorHandler(debug bool, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err := pkgerrors.Errorf("panic: %v", rec)
				log.Error(c.Request.Context(), "panic recovered",
					"path", c.Request.URL.Path,
					"panic", fmt.Sprint(rec),
				)
				render(c, err, debug)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		appErr := Classify(err)
		if appErr.Status >= http.StatusInternalServerError {
			log.Error(c.Request.Context(), "request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"kind", string(appErr.Kind),
				"error", err.Error(),
			)
		} else {
			log.Debug(c.Request.Context(), "request rejected",
				"path", c.Request.URL.Path,
				"kind", string(appErr.Kind),
				"error", err.Error(),
			)
		}
		render(c, err, debug)
	}
}

func render(c *gin.Context, err error, debug bool) {
	appErr := Classify(err)
	body := gin.H{"success": false, "error": appErr.Body()}
	if debug {
		body["stack"] = stackOf(err)
	}
	c.JSON(appErr.Status, body)
}
