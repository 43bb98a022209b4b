// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the butcherdesk development backend.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - BasePath: prefix for every route, e.g. "/api".
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - DatabaseDSN: PostgreSQL DSN (pgx) for user accounts. Empty keeps them in memory.
//   - DemoPassword: password of the seeded demo accounts.
//   - ShutdownTimeout: how long in-flight requests get on shutdown.
type Config struct {
	EndpointAddr                 string
	BasePath                     string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	DatabaseDSN                  string
	DemoPassword                 string
	ShutdownTimeout              time.Duration
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults. The short access
// token lifetime makes the refresh flow easy to observe.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.BasePath = "/api"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Minute
	c.RefreshTokenValidityDuration = 60 * time.Minute
	c.DemoPassword = "butcher"
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
