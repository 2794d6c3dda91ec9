package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/config"
	"github.com/you/allospace/internal/infrastructure/auth"
	"github.com/you/allospace/internal/infrastructure/database"
	"github.com/you/allospace/internal/infrastructure/notifications"
	"github.com/you/allospace/internal/infrastructure/payments"
	"github.com/you/allospace/internal/infrastructure/repositories"
	"github.com/you/allospace/internal/logging"
	"github.com/you/allospace/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    logging.Logger

	// Infrastructure
	DB          *gorm.DB
	Mongo       *mongo.Client
	RedisClient *database.RedisClient
	Enforcer    domain.CasbinEnforcer

	// Repositories
	AccountRepo domain.AccountRepository
	ListingRepo domain.ListingRepository
	Throttle    domain.ResetThrottle

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AccountSvc      domain.AccountService
}

// NewContainer creates and initializes all dependencies.
// The credential store is chosen by the scheme of DATABASE_URL.
func NewContainer(ctx context.Context, cfg *config.Config, log logging.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	var err error
	if cfg.UsesMongo() {
		err = c.initMongo(ctx)
	} else {
		err = c.initPostgres(ctx)
	}
	if err != nil {
		c.Close()
		return nil, err
	}

	if err := auth.SeedDefaultPolicies(c.Enforcer); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to seed casbin policies: %w", err)
	}

	c.initRedis(ctx)
	c.initServices()
	return c, nil
}

func (c *Container) initPostgres(ctx context.Context) error {
	cfg := c.Config
	db, err := database.ConnectWithRetry(ctx, c.Log, cfg.DBConnectAttempts, cfg.DBRetryDelay,
		func(context.Context) (*gorm.DB, error) {
			return database.Open(cfg.DatabaseURL, cfg.IsProduction())
		})
	if err != nil {
		return err
	}
	c.DB = db

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return err
	}

	c.Enforcer = cas.E
	c.AccountRepo = repositories.NewAccountRepository(db)
	c.ListingRepo = repositories.NewListingRepository(db)
	c.Log.Info(ctx, "credential store ready", "engine", "postgres")
	return nil
}

func (c *Container) initMongo(ctx context.Context) error {
	cfg := c.Config
	client, err := database.ConnectWithRetry(ctx, c.Log, cfg.DBConnectAttempts, cfg.DBRetryDelay,
		func(ctx context.Context) (*mongo.Client, error) {
			return database.OpenMongo(ctx, cfg.DatabaseURL)
		})
	if err != nil {
		return err
	}
	c.Mongo = client

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	// policies live in memory next to a document store
	cas, err := auth.NewMemoryCasbinService(cfg.CasbinModelPath)
	if err != nil {
		return err
	}

	c.Enforcer = cas.E
	c.AccountRepo = repositories.NewMongoAccountRepository(db, database.AccountsCollection)
	c.ListingRepo = repositories.NewMongoListingRepository(db, database.ListingsCollection)
	c.Log.Info(ctx, "credential store ready", "engine", "mongodb", "database", cfg.MongoDatabase)
	return nil
}

// initRedis never fails: without redis password resets are not throttled
func (c *Container) initRedis(ctx context.Context) {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)

	if err := c.RedisClient.Ping(ctx, 3*time.Second); err != nil {
		c.Log.Warn(ctx, "redis unavailable, reset throttling degraded", "addr", c.Config.RedisAddr, "error", err)
	}
	c.Throttle = repositories.NewResetThrottle(c.RedisClient.Client, c.Config.ResetResendWindow)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.PasswordSvc = auth.NewPasswordService(cfg.BcryptCost)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	mailer := notifications.NewSMTPMailer(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, c.Log)
	sms := notifications.NewTwilioSMS(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log)
	c.NotificationSvc = notifications.NewGateway(mailer, sms)

	c.AccountSvc = services.NewAccountService(services.Dependencies{
		Accounts:  c.AccountRepo,
		Listings:  c.ListingRepo,
		Passwords: c.PasswordSvc,
		Tokens:    c.TokenSvc,
		Resets:    auth.NewResetTokenService(),
		Identity:  auth.NewGoogleVerifier(cfg.GoogleClientID),
		Notifier:  c.NotificationSvc,
		Payments:  payments.NewPaystackClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, &http.Client{Timeout: 15 * time.Second}),
		Throttle:  c.Throttle,
		Audit:     logging.NewAuditLogger(c.Log),
		Logger:    c.Log,
	}, services.AccountConfig{
		FrontendURL:      cfg.FrontendURL,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		PercentageCharge: cfg.PaystackPercentageCharge,
	})
}

// Close closes all connections
func (c *Container) Close() {
	ctx := context.Background()
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Log.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if c.DB != nil {
		if err := database.Close(c.DB); err != nil {
			c.Log.Warn(ctx, "postgres close failed", "error", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			c.Log.Warn(ctx, "mongo disconnect failed", "error", err)
		}
	}
}
