package credentials

import (
	"context"
	"fmt"
)

// Driver identifiers accepted by NewBackend.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Backend is the persisted key/value storage underneath a Store.
//
// Get reports ok=false for a missing key. SetMany writes all entries or none
// where the backend can guarantee it. Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetMany(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// BackendConfig selects and configures a Backend.
type BackendConfig struct {
	Driver string
	// Path is the JSON file (file driver) or database file (sqlite driver).
	Path  string
	Redis *RedisConfig
}

// RedisConfig captures connection options for the redis driver.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// NewBackend creates a Backend based on cfg.Driver. Empty driver means memory.
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemoryBackend(), nil
	case DriverFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file driver requires a path")
		}
		return NewFileBackend(cfg.Path), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite driver requires a path")
		}
		db, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteBackend(db), nil
	case DriverRedis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis configuration missing")
		}
		return NewRedisBackend(ctx, *cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported credential store driver: %s", driver)
	}
}
