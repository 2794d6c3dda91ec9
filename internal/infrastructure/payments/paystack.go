package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/you/allospace/domain"
)

// PaystackClient implements domain.PaymentProvider against the Paystack REST API
type PaystackClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewPaystackClient creates a client; baseURL is normally https://api.paystack.co
func NewPaystackClient(baseURL, secretKey string, httpClient *http.Client) *PaystackClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PaystackClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: httpClient,
	}
}

type subaccountPayload struct {
	BusinessName     string  `json:"business_name"`
	SettlementBank   string  `json:"settlement_bank"`
	AccountNumber    string  `json:"account_number"`
	PercentageCharge float64 `json:"percentage_charge"`
	PrimaryEmail     string  `json:"primary_contact_email,omitempty"`
}

type subaccountResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		SubaccountCode string `json:"subaccount_code"`
	} `json:"data"`
}

// CreateSubaccount implements domain.PaymentProvider.
// Every failure wraps domain.ErrProviderFailure.
func (p *PaystackClient) CreateSubaccount(ctx context.Context, req domain.SubaccountRequest) (*domain.Subaccount, error) {
	body, err := json.Marshal(subaccountPayload{
		BusinessName:     req.BusinessName,
		SettlementBank:   req.SettlementBank,
		AccountNumber:    req.AccountNumber,
		PercentageCharge: req.PercentageCharge,
		PrimaryEmail:     req.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/subaccount", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	var out subaccountResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: status %d: undecodable response", domain.ErrProviderFailure, resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !out.Status {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, out.Message)
	}
	if out.Data.SubaccountCode == "" {
		return nil, fmt.Errorf("%w: response carried no subaccount code", domain.ErrProviderFailure)
	}

	return &domain.Subaccount{Code: out.Data.SubaccountCode}, nil
}

var _ domain.PaymentProvider = (*PaystackClient)(nil)
