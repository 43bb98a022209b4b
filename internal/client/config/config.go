package config

import (
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/client/credentials"
)

// Config holds runtime settings for the butcherdesk CLI.
//
// Fields:
//   - ServerBaseURL: root URL of the ERP REST API.
//   - RequestTimeout: upper bound for a single HTTP call, refresh included.
//   - CredentialDriver/CredentialPath: where the token pair is kept
//     (memory, file, sqlite or redis).
//   - Redis*: connection options for the redis driver.
//   - OnlineCheckInterval: how often the CLI checks backend reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL    string
	RequestTimeout   time.Duration
	CredentialDriver string
	CredentialPath   string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisPrefix      string

	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.CredentialDriver = credentials.DriverSQLite
	c.CredentialPath = "butcherdesk.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "butcherdesk:credentials:"
	c.OnlineCheckInterval = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Backend translates the credential settings for credentials.NewBackend.
func (c *Config) Backend() credentials.BackendConfig {
	bc := credentials.BackendConfig{Driver: c.CredentialDriver, Path: c.CredentialPath}
	if c.CredentialDriver == credentials.DriverRedis {
		bc.Redis = &credentials.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		}
	}
	return bc
}
