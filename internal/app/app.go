package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/allospace/internal/config"
	httpx "github.com/you/allospace/internal/http"
	"github.com/you/allospace/internal/http/handlers"
	"github.com/you/allospace/internal/http/middleware"
	"github.com/you/allospace/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires the HTTP surface onto the container's services
func NewRouter(c *Container) *gin.Engine {
	cookies := handlers.CookiePolicy{
		Production: c.Config.IsProduction(),
		MaxAge:     c.Config.SessionTTL,
	}
	return httpx.BuildRouter(
		httpx.RouterConfig{
			Debug:          !c.Config.IsProduction(),
			AllowedOrigins: c.Config.AllowedOrigins,
		},
		c.Log,
		handlers.NewAuthHandlers(c.AccountSvc, cookies),
		handlers.NewUserHandlers(c.AccountSvc),
		middleware.NewAuthMW(c.TokenSvc),
		middleware.NewCasbinMW(c.Enforcer),
	)
}

// Run serves until SIGINT/SIGTERM or a listener failure. Either way the
// listener is shut down before connections are closed. A listener failure
// is returned so the caller can exit nonzero.
func Run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutdown signal received")
	case err, ok := <-serveErr:
		if ok {
			log.Error(context.Background(), "server failed", "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
	log.Info(shutdownCtx, "server stopped")
	return runErr
}
