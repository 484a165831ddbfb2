package config

import "time"

// Config is the root configuration for a coretimed instance.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Indexer   IndexerConfig   `yaml:"indexer"`
	Sale      SaleConfig      `yaml:"sale"`
	Regions   RegionsConfig   `yaml:"regions"`
	Constants ConstantsConfig `yaml:"constants"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// InstanceConfig identifies this instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// GatewayConfig holds chain-data gateway settings.
type GatewayConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	// Pointers tell an explicit 0 (no retries, breaker off) from unset.
	MaxRetries      *int          `yaml:"max_retries"`
	BreakerFailures *int          `yaml:"breaker_failures"` // consecutive failed calls that open the breaker
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// IndexerConfig holds the squid indexer database connection.
// Only used when sale.info_source is "indexer".
type IndexerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SaleConfig selects where sale initialization records come from.
type SaleConfig struct {
	InfoSource      string        `yaml:"info_source"` // "gateway" or "indexer"
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// RegionsConfig holds region snapshot poller settings.
type RegionsConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// ConstantsConfig holds constants cache settings.
type ConstantsConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// MetricsConfig holds Prometheus metrics and health server settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
