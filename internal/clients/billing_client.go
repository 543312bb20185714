// Package clients holds outbound REST clients to sibling AffableLink
// services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

// BillingClient handles communication with service-billing, which
// executes payouts.
type BillingClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBillingClient creates a new BillingClient.
func NewBillingClient(baseURL string, logger *zap.Logger) *BillingClient {
	return &BillingClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// envelope is the {success, message, data} wrapper every billing
// endpoint returns. Decoding it here keeps the maybe-wrapped ambiguity
// out of call sites.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// DisbursementRequest asks billing to pay a partner.
type DisbursementRequest struct {
	PayoutID      string  `json:"payout_id"`
	PartnerID     string  `json:"partner_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PayoutAddress string  `json:"payout_address"`
}

// Disbursement is billing's record of an executed payout.
type Disbursement struct {
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	ExecutedAt time.Time `json:"executed_at"`
}

// ExecutePayout submits a payout for disbursement and returns billing's
// reference.
func (c *BillingClient) ExecutePayout(ctx context.Context, req *DisbursementRequest) (*Disbursement, error) {
	url := fmt.Sprintf("%s/api/v1/billing/disbursements", c.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, affiliate.Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, affiliate.NewAPIError(
			affiliate.CodeAPIError,
			fmt.Sprintf("billing returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
			resp.StatusCode,
		)
	}

	var result envelope[Disbursement]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, affiliate.Normalize(fmt.Errorf("failed to decode response: %w", err))
	}
	if !result.Success {
		return nil, affiliate.NewAPIError(affiliate.CodeAPIError, result.Message, resp.StatusCode)
	}

	return &result.Data, nil
}

// GetDisbursement fetches billing's record for a payout reference.
func (c *BillingClient) GetDisbursement(ctx context.Context, reference string) (*Disbursement, error) {
	url := fmt.Sprintf("%s/api/v1/billing/disbursements/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, affiliate.Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, affiliate.NewAPIError(
			affiliate.CodeAPIError,
			fmt.Sprintf("billing returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
			resp.StatusCode,
		)
	}

	var result envelope[Disbursement]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, affiliate.Normalize(fmt.Errorf("failed to decode response: %w", err))
	}
	if !result.Success {
		return nil, affiliate.NewAPIError(affiliate.CodeAPIError, result.Message, resp.StatusCode)
	}

	c.logger.Debug("Fetched disbursement from billing", zap.String("reference", reference))
	return &result.Data, nil
}

// truncate shortens a string for log-safe error messages.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
