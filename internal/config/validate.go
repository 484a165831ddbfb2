package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Gateway.URL == "" {
		return errors.New("gateway.url is required")
	}
	if u, err := url.Parse(c.Gateway.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("gateway.url is not a valid url: %q", c.Gateway.URL)
	}
	if c.Gateway.MaxRetries != nil && *c.Gateway.MaxRetries < 0 {
		return errors.New("gateway.max_retries must be >= 0")
	}
	if c.Gateway.BreakerFailures != nil && *c.Gateway.BreakerFailures < 0 {
		return errors.New("gateway.breaker_failures must be >= 0")
	}

	switch c.Sale.InfoSource {
	case InfoSourceGateway:
	case InfoSourceIndexer:
		if err := c.Indexer.validate("indexer"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("sale.info_source must be %q or %q, got %q", InfoSourceGateway, InfoSourceIndexer, c.Sale.InfoSource)
	}

	if c.Sale.RefreshInterval <= 0 {
		return errors.New("sale.refresh_interval must be > 0")
	}

	if c.Regions.PollInterval <= 0 {
		return errors.New("regions.poll_interval must be > 0")
	}
	if c.Regions.FetchTimeout <= 0 {
		return errors.New("regions.fetch_timeout must be > 0")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (db *IndexerConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
