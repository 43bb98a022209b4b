package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/butcherdesk/internal/flagx"
	"github.com/dmitrijs2005/butcherdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell "absent" from "zero".
type JsonConfig struct {
	ServerBaseURL    *string         `json:"server_base_url"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	CredentialDriver *string         `json:"credential_driver"`
	CredentialPath   *string         `json:"credential_path"`
	Redis            *JsonRedis      `json:"redis"`

	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
}

type JsonRedis struct {
	Addr     *string `json:"addr"`
	Password *string `json:"password"`
	DB       *int    `json:"db"`
	Prefix   *string `json:"prefix"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. It panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerBaseURL, jc.ServerBaseURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIf(&cfg.CredentialDriver, jc.CredentialDriver)
	setIf(&cfg.CredentialPath, jc.CredentialPath)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	setIf(&cfg.LogLevel, jc.LogLevel)
	if r := jc.Redis; r != nil {
		setIf(&cfg.RedisAddr, r.Addr)
		setIf(&cfg.RedisPassword, r.Password)
		setIf(&cfg.RedisDB, r.DB)
		setIf(&cfg.RedisPrefix, r.Prefix)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
