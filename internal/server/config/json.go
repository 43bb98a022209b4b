package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/flagx"
	"github.com/dmitrijs2005/butcherdesk/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations use timex.Duration so
// both "1m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	BasePath                     string         `json:"base_path"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	DatabaseDSN                  string         `json:"database_dsn"`
	DemoPassword                 string         `json:"demo_password"`
	ShutdownTimeout              timex.Duration `json:"shutdown_timeout"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson loads the JSON file named by -c or -config into config. Only
// non-zero values overwrite. A missing flag means nothing is loaded; an
// unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.BasePath, c.BasePath)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DemoPassword, c.DemoPassword)
	setString(&config.LogLevel, c.LogLevel)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
