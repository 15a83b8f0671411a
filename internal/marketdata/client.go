package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/httputil"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// Client handles communication with the financial data API.
// All outbound market data calls go through this client so the
// rate limiter sees every request.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient creates a market data API client.
func NewClient(httpClient *httputil.Client, cfg config.MarketDataConfig, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// fetchJSON fetches a JSON document from the API and decodes it into dest.
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
