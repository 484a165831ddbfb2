package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGatewayURL       = "http://localhost:8787"
	DefaultGatewayTimeout   = 30 * time.Second
	DefaultMaxRetries       = 3
	DefaultBreakerFailures  = 5
	DefaultBreakerCooldown  = 30 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
	DefaultInfoSource       = InfoSourceGateway
	DefaultSaleRefresh      = time.Minute
	DefaultPollInterval     = 5 * time.Second
	DefaultFetchTimeout     = 10 * time.Second
	DefaultConstantsTimeout = 30 * time.Second
	DefaultMetricsPort      = 9090
	DefaultMetricsPath      = "/metrics"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Sale info sources.
const (
	InfoSourceGateway = "gateway"
	InfoSourceIndexer = "indexer"
)

func (c *Config) applyDefaults() {
	// Gateway defaults
	if c.Gateway.URL == "" {
		c.Gateway.URL = DefaultGatewayURL
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = DefaultGatewayTimeout
	}
	if c.Gateway.MaxRetries == nil {
		c.Gateway.MaxRetries = intPtr(DefaultMaxRetries)
	}
	if c.Gateway.BreakerFailures == nil {
		c.Gateway.BreakerFailures = intPtr(DefaultBreakerFailures)
	}
	if c.Gateway.BreakerCooldown == 0 {
		c.Gateway.BreakerCooldown = DefaultBreakerCooldown
	}

	// Indexer defaults
	if c.Indexer.Port == 0 {
		c.Indexer.Port = DefaultDBPort
	}
	if c.Indexer.SSLMode == "" {
		c.Indexer.SSLMode = DefaultDBSSLMode
	}
	if c.Indexer.MaxConns == 0 {
		c.Indexer.MaxConns = DefaultMaxConns
	}
	if c.Indexer.MinConns == 0 {
		c.Indexer.MinConns = DefaultMinConns
	}

	if c.Sale.InfoSource == "" {
		c.Sale.InfoSource = DefaultInfoSource
	}
	if c.Sale.RefreshInterval == 0 {
		c.Sale.RefreshInterval = DefaultSaleRefresh
	}

	// Regions defaults
	if c.Regions.PollInterval == 0 {
		c.Regions.PollInterval = DefaultPollInterval
	}
	if c.Regions.FetchTimeout == 0 {
		c.Regions.FetchTimeout = DefaultFetchTimeout
	}

	if c.Constants.FetchTimeout == 0 {
		c.Constants.FetchTimeout = DefaultConstantsTimeout
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func intPtr(v int) *int { return &v }
