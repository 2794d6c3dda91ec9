package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/http/middleware"
	"github.com/you/allospace/internal/logging"
	"github.com/you/allospace/internal/mocks"
)

const callerID = "00000000-0000-4000-8000-000000000001"

func setupUserRouter(svc domain.AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(false, logging.Discard()))
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, callerID)
		c.Set(middleware.ContextRole, "customer")
	})

	h := NewUserHandlers(svc)
	r.PUT("/user/update", h.Update)
	r.GET("/user/me", h.Me)
	r.POST("/user/payment", h.Payment)
	return r
}

func TestUserHandlers_Update(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		setupMocks     func(t *testing.T, svc *mocks.MockAccountService)
		expectedStatus int
		validate       func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "partial update only forwards present fields",
			requestBody: `{"address":"1 Broad Street","city":"Abuja"}`,
			setupMocks: func(t *testing.T, svc *mocks.MockAccountService) {
				svc.UpdateProfileFunc = func(ctx context.Context, id string, u domain.ProfileUpdate) (*domain.Account, error) {
					assert.Equal(t, callerID, id)
					require.NotNil(t, u.Address)
					require.NotNil(t, u.City)
					assert.Nil(t, u.Name)
					assert.Nil(t, u.Phone)
					a := testAccount(domain.RoleCustomer)
					a.Address, a.City = *u.Address, *u.City
					return a, nil
				}
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "User updated successfully", body["message"])
				user := body["user"].(map[string]interface{})
				assert.Equal(t, "1 Broad Street", user["address"])
				assert.Equal(t, "Abuja", user["city"])
			},
		},
		{
			name:        "account gone",
			requestBody: `{"name":"Ada L."}`,
			setupMocks: func(t *testing.T, svc *mocks.MockAccountService) {
				svc.UpdateProfileFunc = func(ctx context.Context, id string, u domain.ProfileUpdate) (*domain.Account, error) {
					return nil, domain.ErrAccountNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "User not found", body["error"])
			},
		},
		{
			name:           "wrong field type",
			requestBody:    `{"name":42}`,
			setupMocks:     func(t *testing.T, svc *mocks.MockAccountService) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, []interface{}{"name has the wrong type"}, body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAccountService()
			tt.setupMocks(t, svc)
			r := setupUserRouter(svc)

			w := doJSON(r, http.MethodPut, "/user/update", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			tt.validate(t, body)
		})
	}
}

func TestUserHandlers_Me(t *testing.T) {
	svc := mocks.NewMockAccountService()
	svc.GetProfileFunc = func(ctx context.Context, id string) (*domain.Account, error) {
		a := testAccount(domain.RoleHost)
		a.Payment = &domain.PaymentProfile{BusinessName: "Ada Spaces", BankName: "058", AccountNumber: "0123456789", SubaccountID: "ACCT_x"}
		return a, nil
	}
	r := setupUserRouter(svc)

	w := doJSON(r, http.MethodGet, "/user/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "host", user["role"])
	assert.Equal(t, "2025-03-01T12:00:00Z", user["createdAt"])
	assert.Equal(t, map[string]interface{}{
		"businessName":         "Ada Spaces",
		"bankName":             "058",
		"bankAccountDetails":   "0123456789",
		"paystackSubaccountId": "ACCT_x",
	}, user["paymentDetails"])
}

func TestUserHandlers_Payment(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "subaccount created",
			expectedStatus: http.StatusOK,
			expectedBody: `{"message":"Payment details saved successfully","paymentDetails":{` +
				`"businessName":"Ada Spaces","bankName":"058","bankAccountDetails":"0123456789","paystackSubaccountId":"ACCT_mock"}}`,
		},
		{
			name:           "provider failure",
			serviceErr:     domain.ErrProviderFailure,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":"Failed to process payment"}`,
		},
		{
			name:           "missing fields",
			serviceErr:     domain.NewValidationError("Bank is required"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":["Bank is required"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAccountService()
			svc.BeginPaymentOnboardingFunc = func(ctx context.Context, id string, in domain.PaymentInput) (*domain.PaymentProfile, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				assert.Equal(t, callerID, id)
				return &domain.PaymentProfile{
					BusinessName:  in.BusinessName,
					BankName:      in.BankName,
					AccountNumber: in.AccountNumber,
					SubaccountID:  "ACCT_mock",
				}, nil
			}
			r := setupUserRouter(svc)

			w := doJSON(r, http.MethodPost, "/user/payment", map[string]string{
				"name": "Ada Spaces", "email": "ada@example.com", "bank": "058", "account_number": "0123456789",
			})
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
