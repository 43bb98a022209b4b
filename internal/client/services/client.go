// Package services contains application services for the butcherdesk client.
// Each service wraps a group of backend endpoints behind typed methods; the
// authenticated client underneath handles tokens and refresh.
package services

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/butcherdesk/internal/client/apiclient"
)

// Client is the part of *apiclient.AuthenticatedClient the services use.
type Client interface {
	Get(ctx context.Context, path string, query url.Values) (*apiclient.Response, error)
	DoJSON(ctx context.Context, method, path string, in, out any) error
}

// SessionClient adds session management to Client.
type SessionClient interface {
	Client
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

var _ SessionClient = (*apiclient.AuthenticatedClient)(nil)
