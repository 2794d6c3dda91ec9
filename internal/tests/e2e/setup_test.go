package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/allospace/internal/app"
	"github.com/you/allospace/internal/config"
	"github.com/you/allospace/internal/infrastructure/auth"
	"github.com/you/allospace/internal/infrastructure/payments"
	"github.com/you/allospace/internal/infrastructure/repositories"
	"github.com/you/allospace/internal/logging"
	"github.com/you/allospace/internal/mocks"
	"github.com/you/allospace/internal/services"
)

const frontendURL = "https://allospace.test"

// TestSuite is the whole service wired over in-memory SQLite, miniredis
// and a fake Paystack endpoint. Outbound email and SMS are captured.
type TestSuite struct {
	DB       *gorm.DB
	Redis    *miniredis.Miniredis
	Tokens   *auth.JWTServiceImpl
	Notifier *mocks.MockNotificationService
	Identity *mocks.MockIdentityVerifier
	Paystack *httptest.Server
	Server   *httptest.Server
}

func NewTestSuite(t *testing.T) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&repositories.DBAccount{}, &repositories.DBListing{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	paystack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":true,"message":"Subaccount created","data":{"subaccount_code":"ACCT_e2e"}}`))
	}))
	t.Cleanup(paystack.Close)

	cas, err := auth.NewMemoryCasbinService("")
	require.NoError(t, err)
	require.NoError(t, auth.SeedDefaultPolicies(cas.E))

	cfg := &config.Config{
		Env:               config.EnvDevelopment,
		FrontendURL:       frontendURL,
		SessionTTL:        24 * time.Hour,
		ResetTokenTTL:     10 * time.Minute,
		ResetResendWindow: time.Minute,
	}
	log := logging.Discard()

	s := &TestSuite{
		DB:       db,
		Redis:    mr,
		Tokens:   auth.NewJWTService("e2e-secret", "allospace", cfg.SessionTTL),
		Notifier: mocks.NewMockNotificationService(),
		Identity: mocks.NewMockIdentityVerifier(),
		Paystack: paystack,
	}

	accountSvc := services.NewAccountService(services.Dependencies{
		Accounts:  repositories.NewAccountRepository(db),
		Listings:  repositories.NewListingRepository(db),
		Passwords: auth.NewPasswordService(bcrypt.MinCost),
		Tokens:    s.Tokens,
		Resets:    auth.NewResetTokenService(),
		Identity:  s.Identity,
		Notifier:  s.Notifier,
		Payments:  payments.NewPaystackClient(paystack.URL, "sk_test_e2e", paystack.Client()),
		Throttle:  repositories.NewResetThrottle(rdb, cfg.ResetResendWindow),
		Logger:    log,
	}, services.AccountConfig{
		FrontendURL:      cfg.FrontendURL,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		PercentageCharge: 5,
	})

	router := app.NewRouter(&app.Container{
		Config:     cfg,
		Log:        log,
		Enforcer:   cas.E,
		TokenSvc:   s.Tokens,
		AccountSvc: accountSvc,
	})
	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Server.Close)
	return s
}

// Response is a decoded JSON reply
type Response struct {
	Status  int
	Body    map[string]interface{}
	Cookies []*http.Cookie
}

func (r *Response) String(key string) string {
	v, _ := r.Body[key].(string)
	return v
}

func (r *Response) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Do sends a JSON request, with a bearer token when token is not empty
func (s *TestSuite) Do(t *testing.T, method, path, token string, body interface{}) *Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := &Response{Status: resp.StatusCode, Cookies: resp.Cookies()}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out.Body))
	return out
}

// Signup registers an account and returns its session token
func (s *TestSuite) Signup(t *testing.T, email, password, phone string) string {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Ada",
		"phone":    phone,
		"address":  "12 Marina Road",
		"country":  "Nigeria",
		"city":     "Lagos",
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	return resp.String("token")
}

// ResetTokenFromLastEmail extracts the plaintext token from the emailed link
func (s *TestSuite) ResetTokenFromLastEmail(t *testing.T) string {
	t.Helper()
	msg := s.Notifier.LastEmail()
	require.NotNil(t, msg, "no email was sent")

	prefix := frontendURL + "/passwordreset/"
	i := strings.Index(msg.Text, prefix)
	require.GreaterOrEqual(t, i, 0, "reset link missing from %q", msg.Text)
	return strings.TrimSpace(msg.Text[i+len(prefix):])
}
