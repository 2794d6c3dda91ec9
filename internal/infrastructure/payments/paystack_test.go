package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/allospace/domain"
)

func TestPaystackClient_CreateSubaccount(t *testing.T) {
	req := domain.SubaccountRequest{
		BusinessName:     "Ada Spaces",
		Email:            "host@example.com",
		SettlementBank:   "058",
		AccountNumber:    "0123456789",
		PercentageCharge: 5,
	}

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantErr  bool
	}{
		{
			name:     "subaccount created",
			status:   http.StatusCreated,
			body:     `{"status":true,"message":"Subaccount created","data":{"subaccount_code":"ACCT_4hl4xenwpjy5wb"}}`,
			wantCode: "ACCT_4hl4xenwpjy5wb",
		},
		{
			name:    "provider rejects the bank details",
			status:  http.StatusBadRequest,
			body:    `{"status":false,"message":"Account details are invalid"}`,
			wantErr: true,
		},
		{
			name:    "success without a subaccount code",
			status:  http.StatusOK,
			body:    `{"status":true,"message":"ok","data":{}}`,
			wantErr: true,
		},
		{
			name:    "non-json response",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/subaccount", r.URL.Path)
				assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

				var payload map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "Ada Spaces", payload["business_name"])
				assert.Equal(t, "058", payload["settlement_bank"])
				assert.Equal(t, "0123456789", payload["account_number"])
				assert.Equal(t, float64(5), payload["percentage_charge"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewPaystackClient(srv.URL+"/", "sk_test_123", srv.Client())
			got, err := client.CreateSubaccount(context.Background(), req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrProviderFailure))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestPaystackClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewPaystackClient(url, "sk", nil)
	_, err := client.CreateSubaccount(context.Background(), domain.SubaccountRequest{})
	assert.ErrorIs(t, err, domain.ErrProviderFailure)
}
