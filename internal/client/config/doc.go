// Package config loads runtime configuration for the butcherdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the ERP API
//	-t int      request timeout (seconds)
//	-s string   credential store driver: memory, file, sqlite, redis
//	-f string   credential file or sqlite database path
//	-r string   redis address for the redis driver
//	-i int      online check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work.
// Fields left out keep their previous value:
//
//	{
//	  "server_base_url": "https://erp.example.com/api",
//	  "request_timeout": "15s",
//	  "credential_driver": "redis",
//	  "redis": {"addr": "127.0.0.1:6379", "db": 2}
//	}
package config
