package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
	"github.com/dmitrijs2005/butcherdesk/internal/common"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Login: obtain and persist a token pair for username/password.
//   - Logout: forget the stored credentials.
//   - Me: return the signed-in user.
//   - IsAuthenticated: report whether a session can be resumed.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	IsAuthenticated(ctx context.Context) bool
}

type authService struct {
	client SessionClient
}

func NewAuthService(client SessionClient) AuthService {
	return &authService{client: client}
}

// Login signs in and fetches the user profile. password is wiped before
// returning.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, username, string(password)); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return a.Me(ctx)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.client.Logout(ctx)
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.client.DoJSON(ctx, http.MethodGet, common.MePath, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.client.IsAuthenticated(ctx)
}
