// Package nbp provides a client for the NBP (Narodowy Bank Polski) Web API
package nbp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/portfel-dev/portfel/internal/common"
	"github.com/portfel-dev/portfel/internal/interfaces"
	"github.com/portfel-dev/portfel/internal/models"
)

const (
	DefaultBaseURL   = "https://api.nbp.pl/api"
	DefaultTable     = "a" // table A carries daily mid rates
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the RatesClient interface using the NBP Web API
type Client struct {
	baseURL    string
	table      string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTable sets the rate table series ("a", "b" or "c")
func WithTable(table string) ClientOption {
	return func(c *Client) {
		c.table = table
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new NBP Web API client. The endpoint is public, so
// no API key option exists.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		table:   DefaultTable,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NBP API error: status %d, endpoint %s", e.StatusCode, e.Endpoint)
}

// GetRateTables retrieves all rate tables published in [startDate, endDate].
// The NBP API answers 404 for ranges with no published tables (all weekend
// or holiday); that surfaces as an *APIError like any other non-OK status.
func (c *Client) GetRateTables(ctx context.Context, startDate, endDate string) ([]models.RateTable, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	path := fmt.Sprintf("/exchangerates/tables/%s/%s/%s/", c.table, startDate, endDate)
	reqURL := c.baseURL + path + "?format=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("start", startDate).Str("end", endDate).Msg("NBP API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Error().Err(err).Str("start", startDate).Str("end", endDate).Dur("elapsed", elapsed).Msg("NBP API request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("start", startDate).Str("end", endDate).Dur("elapsed", elapsed).Msg("NBP API non-OK response")
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: path}
	}

	var tables []models.RateTable
	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info().Int("tables", len(tables)).Str("start", startDate).Str("end", endDate).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("NBP API call")

	return tables, nil
}

// Ensure Client implements RatesClient
var _ interfaces.RatesClient = (*Client)(nil)
