// Package upstream provides a client for the Dendreo training-management API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/apperrors"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/logging"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/metrics"
)

// DefaultTimeout is the maximum time to wait for a single provider response.
const DefaultTimeout = 15 * time.Second

// DefaultBaseURL is the tenant API root.
const DefaultBaseURL = "https://pro.dendreo.com/competences_et_metiers/api"

// Config holds the connection settings of the provider.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client provides read-only access to the provider API.
// Every response body is decoded into a generic JSON tree; callers normalize it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a provider client. Calls are instrumented through the metrics transport.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Transport: metrics.NewUpstreamTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		logger:  logger.Named("upstream"),
	}
}

// Fetch issues GET {base}/{endpoint}.php with params and the API key.
// Errors:
//   - apperrors.ErrUpstreamTimeout when the call exceeded the client timeout or ctx deadline
//   - *apperrors.UpstreamError for a non-2xx status, with the decoded body as details
//   - apperrors.ErrUpstreamUnavailable for any other transport failure
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (any, error) {
	endpointURL, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling provider",
		zap.String("endpoint", endpoint),
		zap.String("url", logging.SanitizeURL(endpointURL)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Provider call timed out",
				zap.String("endpoint", endpoint),
				zap.Duration("timeout", c.timeout))
			return nil, fmt.Errorf("%s: %w", endpoint, apperrors.ErrUpstreamTimeout)
		}
		c.logger.Error("Provider call failed",
			zap.String("endpoint", endpoint),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("%s: %w: %s", endpoint, apperrors.ErrUpstreamUnavailable, logging.SanitizeError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", endpoint, apperrors.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("%s: failed to read response: %w", endpoint, apperrors.ErrUpstreamUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Provider returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.TruncateString(logging.SanitizeText(string(body)), logging.MaxBodyLogLength)))
		return nil, &apperrors.UpstreamError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Details:  decodeDetails(body),
		}
	}

	return decodeBody(body), nil
}

// decodeBody parses a JSON body, returning nil when it is empty or not JSON.
// The provider does not reliably set Content-Type, so the header is not consulted.
func decodeBody(body []byte) any {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return v
}

// decodeDetails is decodeBody that keeps a plain-text error body as a string.
func decodeDetails(body []byte) any {
	if v := decodeBody(body); v != nil {
		return v
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return logging.TruncateString(text, logging.MaxBodyLogLength)
	}
	return nil
}

// buildURL joins the endpoint onto the base path and attaches the API key.
func (c *Client) buildURL(endpoint string, params url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	u.Path = path.Join(u.Path, endpoint+".php")

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
