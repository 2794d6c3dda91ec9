package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/allospace/domain"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "token"

// Context keys set by AuthMW for downstream handlers
const (
	ContextAccountID = "user_id"
	ContextRole      = "user_role"
)

// AuthMW wraps the token service for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc}
}

// WithJWT returns the session token middleware. The token is read from the
// Authorization bearer header first, then from the session cookie.
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerOrCookie(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		claims, err := mw.tokenSvc.Verify(token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrTokenMalformed
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", domain.ErrMissingToken
}

// AccountID returns the authenticated account id set by WithJWT
func AccountID(c *gin.Context) string {
	return c.GetString(ContextAccountID)
}
