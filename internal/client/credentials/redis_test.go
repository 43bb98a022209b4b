package credentials

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T, prefix string) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	b, err := NewRedisBackend(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestRedisBackend_Lifecycle(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, "")

	require.NoError(t, b.SetMany(ctx, map[string]string{"access_token": "A", "refresh_token": "R"}))

	raw, err := mr.Get(defaultRedisPrefix + "access_token")
	require.NoError(t, err)
	assert.Equal(t, "A", raw)

	v, ok, err := b.Get(ctx, "refresh_token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "R", v)

	require.NoError(t, b.Delete(ctx, "access_token", "refresh_token"))
	require.NoError(t, b.Delete(ctx, "access_token", "refresh_token"))
	assert.False(t, mr.Exists(defaultRedisPrefix+"access_token"))

	_, ok, err = b.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_CustomPrefix(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, "shop42:")

	require.NoError(t, b.SetMany(ctx, map[string]string{"access_token": "A"}))
	assert.True(t, mr.Exists("shop42:access_token"))
}

func TestRedisBackend_NoTTL(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, "")

	require.NoError(t, b.SetMany(ctx, map[string]string{"refresh_token": "R"}))
	assert.Zero(t, mr.TTL(defaultRedisPrefix+"refresh_token"))
}

func TestRedisBackend_ServerGone_StoreDegrades(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t, "")
	s := NewStore(b)
	require.NoError(t, s.StoreTokens(ctx, "A", "R"))

	mr.Close()

	_, ok := s.AccessToken(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, s.StoreTokens(ctx, "A", "R"), ErrStorageUnavailable)
}

func TestNewRedisBackend_Errors(t *testing.T) {
	_, err := NewRedisBackend(context.Background(), RedisConfig{})
	assert.EqualError(t, err, "redis address required")

	_, err = NewRedisBackend(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
