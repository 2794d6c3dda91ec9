package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/http/handlers"
	"github.com/you/allospace/internal/http/middleware"
	"github.com/you/allospace/internal/logging"
)

// RouterConfig carries the boundary settings of the HTTP surface
type RouterConfig struct {
	Debug          bool
	AllowedOrigins []string
}

func BuildRouter(cfg RouterConfig, log logging.Logger, ah *handlers.AuthHandlers, uh *handlers.UserHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(cfg.Debug, log), middleware.RequestLogger(log), middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api/auth")
	api.POST("/signup", ah.Signup)
	api.POST("/login", ah.Login)
	api.POST("/google", ah.GoogleLogin)
	api.POST("/logout", ah.Logout)

	reset := r.Group("/auth")
	reset.POST("/forgot-password", ah.ForgotPassword)
	reset.PUT("/reset/:resetToken", ah.ResetPassword)

	user := r.Group("/user").Use(jwtmw.WithJWT(), cb.Enforce())
	user.PUT("/update", uh.Update)
	user.GET("/me", uh.Me)
	user.POST("/payment", uh.Payment)

	r.NoRoute(func(c *gin.Context) { _ = c.Error(domain.ErrRouteNotFound) })

	return r
}
