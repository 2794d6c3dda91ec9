package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type AppConfig struct {
	Env            string   `yaml:"env"`
	Port           int      `yaml:"port"`
	FrontendURL    string   `yaml:"frontend_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MongoDatabase   string `yaml:"mongo_database"`
	ConnectAttempts int    `yaml:"connect_attempts"`
	RetryDelay      string `yaml:"retry_delay"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type ResetConfig struct {
	TokenTTL     string `yaml:"token_ttl"`
	ResendWindow string `yaml:"resend_window"`
}

type PaystackConfig struct {
	SecretKey        string  `yaml:"secret_key"`
	BaseURL          string  `yaml:"base_url"`
	PercentageCharge float64 `yaml:"percentage_charge"`
}

type GoogleConfig struct {
	ClientID string `yaml:"client_id"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Reset    ResetConfig    `yaml:"reset"`
	Paystack PaystackConfig `yaml:"paystack"`
	Google   GoogleConfig   `yaml:"google"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
	Security SecurityConfig `yaml:"security"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type Config struct {
	Env                      string
	Port                     string
	FrontendURL              string
	AllowedOrigins           []string
	DatabaseURL              string
	MongoDatabase            string
	DBConnectAttempts        int
	DBRetryDelay             time.Duration
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	JWTSecret                string
	JWTIssuer                string
	SessionTTL               time.Duration
	ResetTokenTTL            time.Duration
	ResetResendWindow        time.Duration
	PaystackSecretKey        string
	PaystackBaseURL          string
	PaystackPercentageCharge float64
	GoogleClientID           string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	MailFrom                 string
	TwilioSID                string
	TwilioToken              string
	TwilioFrom               string
	CasbinModelPath          string
	BcryptCost               int
}

// IsProduction reports whether diagnostics must be hidden from clients
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// UsesMongo reports whether the credential store is a MongoDB deployment
func (c *Config) UsesMongo() bool {
	return strings.HasPrefix(c.DatabaseURL, "mongodb://") || strings.HasPrefix(c.DatabaseURL, "mongodb+srv://")
}

// Validate fails fast on settings the process cannot start without
func (c *Config) Validate() error {
	var problems []string
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.ResetTokenTTL <= 0 {
		problems = append(problems, "RESET_TOKEN_TTL must be positive")
	}
	if c.DBConnectAttempts < 1 {
		problems = append(problems, "DB_CONNECT_ATTEMPTS must be at least 1")
	}
	// reset emails are only logged without a mail server
	if c.IsProduction() {
		if c.SMTPHost == "" {
			problems = append(problems, "SMTP_HOST is required in production")
		}
		if c.MailFrom == "" {
			problems = append(problems, "MAIL_FROM is required in production")
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func envDuration(k, def string) (time.Duration, error) {
	v := env(k, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}

// Load reads .env (when present), then the optional YAML file named by
// CONFIG_FILE, then lets environment variables override every value.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := loadConfigFile(env("CONFIG_FILE", "config/config.yml"))
	if err != nil {
		return nil, err
	}
	return fromFileAndEnv(file)
}

func fromFileAndEnv(f *ConfigFile) (*Config, error) {
	var err error
	cfg := &Config{
		Env:               env("APP_ENV", orString(f.App.Env, EnvDevelopment)),
		Port:              env("PORT", orString(itoa(f.App.Port), "3000")),
		FrontendURL:       strings.TrimRight(env("FRONTEND_URL", f.App.FrontendURL), "/"),
		DatabaseURL:       env("DATABASE_URL", f.Database.URL),
		MongoDatabase:     env("MONGO_DATABASE", orString(f.Database.MongoDatabase, "allospace")),
		RedisAddr:         env("REDIS_ADDR", orString(f.Redis.Addr, "localhost:6379")),
		RedisPassword:     env("REDIS_PASSWORD", f.Redis.Password),
		JWTSecret:         env("JWT_SECRET", f.JWT.Secret),
		JWTIssuer:         env("JWT_ISSUER", orString(f.JWT.Issuer, "allospace")),
		PaystackSecretKey: env("PAYSTACK_SECRET_KEY", f.Paystack.SecretKey),
		PaystackBaseURL:   env("PAYSTACK_BASE_URL", orString(f.Paystack.BaseURL, "https://api.paystack.co")),
		GoogleClientID:    env("GOOGLE_CLIENT_ID", f.Google.ClientID),
		SMTPHost:          env("SMTP_HOST", f.SMTP.Host),
		SMTPUsername:      env("SMTP_USERNAME", f.SMTP.Username),
		SMTPPassword:      env("SMTP_PASSWORD", f.SMTP.Password),
		MailFrom:          env("MAIL_FROM", orString(f.SMTP.From, "no-reply@allospace.co")),
		TwilioSID:         env("TWILIO_ACCOUNT_SID", f.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_AUTH_TOKEN", f.Twilio.AuthToken),
		TwilioFrom:        env("TWILIO_FROM_NUMBER", f.Twilio.FromNumber),
		CasbinModelPath:   env("CASBIN_MODEL_PATH", f.Casbin.ModelPath),
	}

	cfg.AllowedOrigins = f.App.AllowedOrigins
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	if cfg.RedisDB, err = envInt("REDIS_DB", f.Redis.DB); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = envInt("SMTP_PORT", orInt(f.SMTP.Port, 587)); err != nil {
		return nil, err
	}
	if cfg.DBConnectAttempts, err = envInt("DB_CONNECT_ATTEMPTS", orInt(f.Database.ConnectAttempts, 5)); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = envInt("BCRYPT_COST", f.Security.BcryptCost); err != nil {
		return nil, err
	}
	if cfg.DBRetryDelay, err = envDuration("DB_RETRY_DELAY", orString(f.Database.RetryDelay, "5s")); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = envDuration("SESSION_TTL", orString(f.JWT.SessionTTL, "24h")); err != nil {
		return nil, err
	}
	if cfg.ResetTokenTTL, err = envDuration("RESET_TOKEN_TTL", orString(f.Reset.TokenTTL, "10m")); err != nil {
		return nil, err
	}
	if cfg.ResetResendWindow, err = envDuration("RESET_RESEND_WINDOW", orString(f.Reset.ResendWindow, "1m")); err != nil {
		return nil, err
	}

	cfg.PaystackPercentageCharge = f.Paystack.PercentageCharge
	if v := os.Getenv("PAYSTACK_PERCENTAGE_CHARGE"); v != "" {
		if cfg.PaystackPercentageCharge, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid PAYSTACK_PERCENTAGE_CHARGE: %w", err)
		}
	}
	if cfg.PaystackPercentageCharge == 0 {
		cfg.PaystackPercentageCharge = 5.0
	}

	return cfg, nil
}

// loadConfigFile returns an empty file when path does not exist
func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigFile{}, nil
		}
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func itoa(i int) string {
	if i == 0 {
		return ""
	}
	return strconv.Itoa(i)
}
