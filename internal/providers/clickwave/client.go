// Package clickwave integrates the ClickWave tracking network API.
package clickwave

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

const (
	ProductionBaseURL = "https://api.clickwave.io"
	SandboxBaseURL    = "https://sandbox.api.clickwave.io"
)

// TokenRefresher defines the interface for refreshing API tokens.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*TokenRefreshResult, error)
}

// TokenRefreshResult holds the result of a token refresh operation.
type TokenRefreshResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Client is the ClickWave API client with automatic retry, token
// refresh, and rate limiting support.
type Client struct {
	apiKey      string
	apiSecret   string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	retryPolicy *affiliate.RetryPolicy
	rateLimiter *affiliate.RateLimiter

	// Token management with thread safety
	tokenMu      sync.RWMutex
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time

	// Token refresher callback for automatic refresh
	tokenRefresher TokenRefresher
}

// ClientConfig holds configuration for the ClickWave client.
type ClientConfig struct {
	APIKey         string
	APISecret      string
	IsSandbox      bool
	Logger         *zap.Logger
	RetryPolicy    *affiliate.RetryPolicy
	RateLimit      *affiliate.RateLimitConfig
	RequestTimeout time.Duration
}

// NewClient creates a new ClickWave API client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("clickwave API key is required")
	}

	baseURL := ProductionBaseURL
	if cfg.IsSandbox {
		baseURL = SandboxBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retryPolicy := cfg.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = affiliate.DefaultRetryPolicy()
	}

	rateLimit := affiliate.DefaultRateLimitConfig()
	if cfg.RateLimit != nil {
		rateLimit = *cfg.RateLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		retryPolicy: retryPolicy,
		rateLimiter: affiliate.NewRateLimiter(rateLimit),
	}, nil
}

// SetTokens sets the access token for authenticated requests.
func (c *Client) SetTokens(accessToken string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.accessToken = accessToken
}

// SetTokensWithRefresh sets tokens with refresh capability.
func (c *Client) SetTokensWithRefresh(accessToken, refreshToken string, expiresAt time.Time) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.tokenExpiry = expiresAt
}

// SetTokenRefresher sets the callback for automatic token refresh.
func (c *Client) SetTokenRefresher(refresher TokenRefresher) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.tokenRefresher = refresher
}

// sign generates the HMAC-SHA256 request signature: key|path|timestamp,
// keyed with the API secret, hex encoded.
func (c *Client) sign(path string, timestamp int64) string {
	base := fmt.Sprintf("%s|%s|%d", c.apiKey, path, timestamp)
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}

// Request represents a generic API request.
type Request struct {
	Method   string
	Path     string
	Query    map[string]string
	Body     interface{}
	NeedAuth bool
}

// Do performs an HTTP request to the ClickWave API with rate limiting,
// automatic retry, and token refresh.
func (c *Client) Do(ctx context.Context, req *Request, result interface{}) error {
	executor := affiliate.NewExecutor(c.retryPolicy)

	retryResult := executor.Execute(ctx, func() error {
		if err := c.rateLimiter.Wait(ctx, req.Path); err != nil {
			return err
		}

		err := c.doRequest(ctx, req, result)
		if err != nil && isTokenExpiredError(err) {
			if refreshErr := c.tryRefreshToken(ctx); refreshErr != nil {
				c.logger.Warn("failed to refresh token",
					zap.Error(refreshErr),
					zap.String("path", req.Path),
				)
				return err
			}
			// Token refreshed, this error is now retryable
			return affiliate.NewAPIError(affiliate.CodeServerError, "token refreshed, retrying", http.StatusUnauthorized)
		}
		return err
	})

	if retryResult.LastError != nil {
		c.logger.Error("ClickWave API request failed after retries",
			zap.String("path", req.Path),
			zap.Int("attempts", retryResult.Attempts),
			zap.Duration("duration", retryResult.Duration),
			zap.Error(retryResult.LastError),
		)
		return retryResult.LastError
	}

	return nil
}

// doRequest performs a single HTTP request without retry.
func (c *Client) doRequest(ctx context.Context, req *Request, result interface{}) error {
	timestamp := time.Now().Unix()

	c.tokenMu.RLock()
	accessToken := c.accessToken
	c.tokenMu.RUnlock()

	url := c.baseURL + req.Path
	queryParams := []string{
		fmt.Sprintf("api_key=%s", c.apiKey),
		fmt.Sprintf("timestamp=%d", timestamp),
		fmt.Sprintf("sign=%s", c.sign(req.Path, timestamp)),
	}

	if req.NeedAuth {
		queryParams = append(queryParams, fmt.Sprintf("access_token=%s", accessToken))
	}

	for k, v := range req.Query {
		queryParams = append(queryParams, fmt.Sprintf("%s=%s", k, v))
	}

	// Sort query params for consistency
	sort.Strings(queryParams)
	url += "?" + strings.Join(queryParams, "&")

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return affiliate.Normalize(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return affiliate.Normalize(err)
	}

	c.logger.Debug("ClickWave API request completed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(startTime)),
		zap.String("response", truncateString(string(respBody), 500)),
	)

	// Parse base response to check for envelope-level errors
	var baseResp struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(respBody, &baseResp); err == nil {
		if baseResp.Error != "" && baseResp.Error != "success" {
			apiErr := affiliate.NewAPIErrorWithRequestID(
				affiliate.ErrorCode(baseResp.Error),
				baseResp.Message,
				resp.StatusCode,
				baseResp.RequestID,
			)

			c.logger.Warn("ClickWave API error",
				zap.String("path", req.Path),
				zap.String("error_code", baseResp.Error),
				zap.String("message", baseResp.Message),
				zap.String("request_id", baseResp.RequestID),
			)

			return apiErr
		}
	}

	if resp.StatusCode >= 400 {
		return affiliate.NewAPIError(
			affiliate.CodeAPIError,
			fmt.Sprintf("HTTP error: %d", resp.StatusCode),
			resp.StatusCode,
		)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return affiliate.Normalize(fmt.Errorf("failed to parse response: %w", err))
		}
	}

	return nil
}

// tryRefreshToken attempts to refresh the access token.
func (c *Client) tryRefreshToken(ctx context.Context) error {
	c.tokenMu.Lock()
	refresher := c.tokenRefresher
	refreshToken := c.refreshToken
	c.tokenMu.Unlock()

	if refresher == nil {
		return fmt.Errorf("no token refresher configured")
	}
	if refreshToken == "" {
		return fmt.Errorf("no refresh token available")
	}

	result, err := refresher.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	c.tokenMu.Lock()
	c.accessToken = result.AccessToken
	c.refreshToken = result.RefreshToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	expiry := c.tokenExpiry
	c.tokenMu.Unlock()

	c.logger.Info("token refreshed successfully",
		zap.Time("new_expiry", expiry),
	)

	return nil
}

// isTokenExpiredError checks if an error indicates token expiration.
func isTokenExpiredError(err error) bool {
	if apiErr, ok := err.(*affiliate.APIError); ok {
		return apiErr.Code.IsTokenError() || apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// truncateString truncates a string to the specified length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// BaseResponse is the common response structure from the ClickWave API.
type BaseResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HasError checks if the response contains an error.
func (r *BaseResponse) HasError() bool {
	return r.Error != "" && r.Error != "success"
}

// ToAPIError converts BaseResponse to APIError.
func (r *BaseResponse) ToAPIError(statusCode int) *affiliate.APIError {
	return affiliate.NewAPIErrorWithRequestID(
		affiliate.ErrorCode(r.Error),
		r.Message,
		statusCode,
		r.RequestID,
	)
}
