package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/butcherdesk/internal/logging"
)

// Default entry keys for the token pair.
const (
	DefaultAccessKey  = "access_token"
	DefaultRefreshKey = "refresh_token"
)

// ErrStorageUnavailable marks any failure of the underlying backend.
var ErrStorageUnavailable = errors.New("credential storage unavailable")

// Pair is an access token with its matching refresh token.
type Pair struct {
	Access  string
	Refresh string
}

type Store struct {
	backend    Backend
	accessKey  string
	refreshKey string
	logger     logging.Logger
}

type StoreOption func(*Store)

// WithKeys overrides the entry keys used for the two tokens.
func WithKeys(accessKey, refreshKey string) StoreOption {
	return func(s *Store) {
		s.accessKey = accessKey
		s.refreshKey = refreshKey
	}
}

func WithLogger(l logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore wraps backend. A nil backend yields a store where every read is
// absent and every write fails with ErrStorageUnavailable.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend:    backend,
		accessKey:  DefaultAccessKey,
		refreshKey: DefaultRefreshKey,
		logger:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "credentials")
	return s
}

// AccessToken returns the stored access token, if any.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	return s.read(ctx, s.accessKey)
}

// RefreshToken returns the stored refresh token, if any.
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.read(ctx, s.refreshKey)
}

// Tokens returns both tokens. ok is false unless both are present.
func (s *Store) Tokens(ctx context.Context) (Pair, bool) {
	access, okA := s.AccessToken(ctx)
	refresh, okR := s.RefreshToken(ctx)
	return Pair{Access: access, Refresh: refresh}, okA && okR
}

// StoreTokens overwrites both entries unconditionally.
func (s *Store) StoreTokens(ctx context.Context, access, refresh string) error {
	if s.backend == nil {
		return ErrStorageUnavailable
	}
	err := s.backend.SetMany(ctx, map[string]string{
		s.accessKey:  access,
		s.refreshKey: refresh,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// ClearTokens removes both entries. Clearing an empty store is a no-op.
func (s *Store) ClearTokens(ctx context.Context) error {
	if s.backend == nil {
		return ErrStorageUnavailable
	}
	if err := s.backend.Delete(ctx, s.accessKey, s.refreshKey); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// read treats storage failures and empty values as absent.
func (s *Store) read(ctx context.Context, key string) (string, bool) {
	if s.backend == nil {
		s.logger.Warn(ctx, "credential read skipped", "key", key, "error", ErrStorageUnavailable)
		return "", false
	}
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "credential read failed, treating as absent", "key", key,
			"error", fmt.Errorf("%w: %w", ErrStorageUnavailable, err))
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
