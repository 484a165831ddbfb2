package indexer

import (
	"net"
	"net/url"
	"strconv"

	"github.com/poppyseed/coretime/internal/config"
)

// BuildConnString builds a PostgreSQL URL from config. User and password are
// escaped as URL userinfo.
func BuildConnString(cfg config.IndexerConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
