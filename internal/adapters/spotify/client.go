package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
)

const (
	// DefaultBaseURL is the Spotify Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1"
	// DefaultMarket scopes catalog lookups to tracks playable in the US.
	DefaultMarket = "US"
)

// Config tunes a Client. Zero values fall back to the defaults.
type Config struct {
	BaseURL string
	Market  string
	// MaxRetries is the total number of attempts per request. One means no retry.
	MaxRetries   int
	RetryBackoff time.Duration
	// RequestsPerSecond caps outgoing calls. Zero disables the limiter.
	RequestsPerSecond float64
	Burst             int
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	market      string
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a new Spotify client. httpClient is expected to carry
// authentication, see NewAuthenticatedHTTPClient.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Market == "" {
		cfg.Market = DefaultMarket
	}

	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		market:      cfg.Market,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.RetryBackoff,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// getJSON issues a GET against path and decodes a 200 response into out.
// It returns the status code so callers can map 404s themselves.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, out any) (int, error) {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("spotify adapter: create request: %w", err)
	}
	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("spotify adapter: %s status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("spotify adapter: decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}
