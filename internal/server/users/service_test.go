package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/server/auth"
	"github.com/dmitrijs2005/butcherdesk/internal/server/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
	s := NewService(NewMemoryRepository(), cfg)
	s.bcryptCost = bcrypt.MinCost
	return s
}

func TestService_LoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	u, err := s.Register(ctx, "vet", "Dr. Ozols", RoleVeterinarian, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.NotEqual(t, []byte("secret"), u.PasswordHash)

	pair, err := s.Login(ctx, "vet", "secret")
	require.NoError(t, err)

	claims, err := s.Authenticate(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, RoleVeterinarian, claims.Role)

	access, err := s.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, access)

	_, err = s.Authenticate(pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = s.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	_, err := s.Register(ctx, "staff", "Front desk", RoleStaff, "pw")
	require.NoError(t, err)

	_, err = s.Login(ctx, "staff", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody", "pw")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Register(ctx, "staff", "dup", RoleStaff, "pw")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestService_RefreshUnknownUser(t *testing.T) {
	s := newTestService(t)
	tok, err := auth.GenerateToken(auth.TokenRefresh, "ghost", RoleStaff, s.jwtSecret, time.Hour)
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestService_RefreshExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.refreshTokenValidityDuration = -time.Second
	_, err := s.Register(ctx, "sup", "Farm", RoleSupplier, "pw")
	require.NoError(t, err)

	pair, err := s.Login(ctx, "sup", "pw")
	require.NoError(t, err)
	_, err = s.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}
