// Package config handles configuration for the catalog server and the
// maintenance CLI: defaults, then .env/environment, then an optional JSON
// file, then command-line flags.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - DatabaseDSN: postgres:// (pgx) or sqlite:// (modernc) connection string.
//   - SecretKey: HMAC secret used to validate bearer JWTs (HS256).
//   - MediaBaseURL: CDN root for covers, thumbs and previews.
//   - RoutePrefix: optional mount point (e.g. "/api") in addition to "/".
//   - CORSOrigins: allowed browser origins.
//   - LogBackend / LogLevel: "slog" or "zap", and the minimum level.
//   - MetricsEnabled: expose /metrics and record request metrics.
//   - ShutdownTimeout: grace period for in-flight requests.
//   - PasswordIterations / PasswordSaltLength: PBKDF2 work factor and salt size.
type Config struct {
	HTTPAddr           string
	DatabaseDSN        string
	SecretKey          string
	MediaBaseURL       string
	RoutePrefix        string
	CORSOrigins        []string
	LogBackend         string
	LogLevel           string
	MetricsEnabled     bool
	ShutdownTimeout    time.Duration
	PasswordIterations int
	PasswordSaltLength int
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.DatabaseDSN = "sqlite:///instance/kidslabs.db"
	c.SecretKey = "secretKey"
	c.MediaBaseURL = "https://cdn.kidslabs.com"
	c.RoutePrefix = ""
	c.CORSOrigins = []string{"*"}
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.MetricsEnabled = true
	c.ShutdownTimeout = 10 * time.Second
	c.PasswordIterations = 600000
	c.PasswordSaltLength = 16
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (including a .env file), an optional JSON file and
// finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
