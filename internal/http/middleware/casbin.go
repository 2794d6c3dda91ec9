package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/infrastructure/auth"
)

// CasbinMW wraps the casbin enforcer for middleware
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce checks the role placed on the context by AuthMW against the
// route pattern and method. It must run after WithJWT.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			_ = c.Error(domain.ErrMissingToken)
			c.Abort()
			return
		}

		obj := c.FullPath()
		if obj == "" {
			obj = c.Request.URL.Path
		}

		allowed, err := mw.enforcer.Enforce(auth.RoleSubject(domain.Role(role)), obj, c.Request.Method)
		if err != nil {
			_ = c.Error(errors.Wrap(err, "authorization check failed"))
			c.Abort()
			return
		}
		if !allowed {
			_ = c.Error(domain.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
