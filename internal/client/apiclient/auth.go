package apiclient

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges username/password for a token pair and stores it.
func (c *AuthenticatedClient) Login(ctx context.Context, username, password string) error {
	var out loginResponse
	status, body, err := c.postUnauthenticated(ctx, common.LoginPath, loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return &Error{Kind: KindRequestFailed, Method: http.MethodPost, Path: common.LoginPath,
			StatusCode: status, Body: body, Err: err}
	}
	if out.Access == "" || out.Refresh == "" {
		return &Error{Kind: KindRequestFailed, Method: http.MethodPost, Path: common.LoginPath,
			StatusCode: status, Body: body, Err: errNoAccessInResponse}
	}

	if err := c.store.StoreTokens(ctx, out.Access, out.Refresh); err != nil {
		return &Error{Kind: KindStorageUnavailable, Err: err}
	}

	c.mu.Lock()
	c.defaultAuth = common.BearerValue(out.Access)
	c.preferDefault = false
	c.mu.Unlock()

	c.logger.Info(ctx, "signed in", "username", username)
	return nil
}

// Logout forgets the stored credentials and the default Authorization header.
func (c *AuthenticatedClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.defaultAuth = ""
	c.preferDefault = false
	c.mu.Unlock()

	if err := c.store.ClearTokens(ctx); err != nil {
		return &Error{Kind: KindStorageUnavailable, Err: err}
	}
	c.logger.Info(ctx, "signed out")
	return nil
}

// IsAuthenticated reports whether a refresh token is stored, i.e. whether
// the session can still be recovered without asking for a password.
func (c *AuthenticatedClient) IsAuthenticated(ctx context.Context) bool {
	_, ok := c.store.RefreshToken(ctx)
	return ok
}
