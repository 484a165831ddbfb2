package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Circuit breaker defaults.
const (
	DefaultBreakerFailures = 5
	DefaultBreakerCooldown = 30 * time.Second
)

// Client provides access to the chain-data gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration

	breakerFailures uint32
	breakerCooldown time.Duration
	breaker         *gobreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new gateway client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:          slog.Default(),
		maxRetries:      3,
		retryBackoff:    time.Second,
		breakerFailures: DefaultBreakerFailures,
		breakerCooldown: DefaultBreakerCooldown,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.breakerFailures > 0 {
		c.breaker = c.newBreaker()
	}

	return c
}

// newBreaker opens after breakerFailures consecutive failed calls and lets
// a single trial call through once breakerCooldown has passed.
func (c *Client) newBreaker() *gobreaker.CircuitBreaker {
	failures := c.breakerFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gateway",
		MaxRequests: 1,
		Timeout:     c.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("gateway circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCircuitBreaker sets how many consecutive failed calls open the
// breaker and how long it stays open. Zero failures disables it.
func WithCircuitBreaker(failures uint32, cooldown time.Duration) ClientOption {
	return func(c *Client) {
		c.breakerFailures = failures
		if cooldown > 0 {
			c.breakerCooldown = cooldown
		}
	}
}
