package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/client/config"
	"github.com/dmitrijs2005/butcherdesk/internal/client/credentials"
	"github.com/dmitrijs2005/butcherdesk/internal/logging"
	"github.com/dmitrijs2005/butcherdesk/internal/server/auth"
	"github.com/dmitrijs2005/butcherdesk/internal/server/catalog"
	serverconfig "github.com/dmitrijs2005/butcherdesk/internal/server/config"
	"github.com/dmitrijs2005/butcherdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/butcherdesk/internal/server/users"
	"github.com/stretchr/testify/require"
)

const testSecret = "cli-secret"

type appEnv struct {
	app    *App
	out    *bytes.Buffer
	server *httptest.Server
	vetID  string
}

func newAppEnv(t *testing.T, input string) *appEnv {
	t.Helper()
	ctx := context.Background()

	us := users.NewService(users.NewMemoryRepository(), &serverconfig.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	})
	vet, err := us.Register(ctx, "vet", "Dr. Ozols", users.RoleVeterinarian, "pw")
	require.NoError(t, err)
	cs := catalog.NewService()
	cs.Seed()

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.Options{Users: us, Catalog: cs, BasePath: "/api"}))
	t.Cleanup(srv.Close)

	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { readPassword = old })

	cfg := &config.Config{
		ServerBaseURL:    srv.URL + "/api",
		RequestTimeout:   5 * time.Second,
		CredentialDriver: credentials.DriverMemory,
	}
	out := &bytes.Buffer{}
	a, err := NewApp(ctx, cfg, strings.NewReader(input), out, logging.NopLogger{})
	require.NoError(t, err)

	return &appEnv{app: a, out: out, server: srv, vetID: vet.ID}
}

func (e *appEnv) token(t *testing.T, typ auth.TokenType, validity time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(typ, e.vetID, users.RoleVeterinarian, []byte(testSecret), validity)
	require.NoError(t, err)
	return tok
}

func TestApp_LoginDashboardAndExpiredAccess(t *testing.T) {
	e := newAppEnv(t, "vet\n")
	ctx := context.Background()

	require.NoError(t, e.app.Login(ctx))
	require.True(t, e.app.isLoggedIn())
	require.Contains(t, e.out.String(), "Signed in as vet (veterinarian)")

	// the whole dashboard fans out on an expired access token
	refresh, ok := e.app.store.RefreshToken(ctx)
	require.True(t, ok)
	require.NoError(t, e.app.store.StoreTokens(ctx, e.token(t, auth.TokenAccess, -time.Minute), refresh))

	require.NoError(t, e.app.Dashboard(ctx))
	require.Regexp(t, `products\s*\|\s*3\s*\|`, e.out.String())
	require.Regexp(t, `documents\s*\|\s*2\s*\|`, e.out.String())

	_, stillRefresh := e.app.store.Tokens(ctx)
	require.True(t, stillRefresh)
	got, _ := e.app.store.RefreshToken(ctx)
	require.Equal(t, refresh, got)
}

func TestApp_RejectedRefreshLogsOut(t *testing.T) {
	e := newAppEnv(t, "vet\n")
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx))

	require.NoError(t, e.app.store.StoreTokens(ctx,
		e.token(t, auth.TokenAccess, -time.Minute), e.token(t, auth.TokenRefresh, -time.Minute)))

	require.Error(t, e.app.WhoAmI(ctx))
	require.False(t, e.app.isLoggedIn())
	require.Contains(t, e.out.String(), "Your session has expired")
	require.False(t, e.app.auth.IsAuthenticated(ctx))
}

func TestApp_ListAndReview(t *testing.T) {
	e := newAppEnv(t, "vet\nlabel missing\n\n")
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx))

	require.NoError(t, e.app.List(ctx, "products", []string{"unit=kg"}))
	require.Contains(t, e.out.String(), "SKU")

	docs, err := e.app.documents.List(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, e.app.Reject(ctx, docs[0].ID))
	require.Contains(t, e.out.String(), "is rejected")

	require.Error(t, e.app.List(ctx, "products", []string{"broken"}))
	require.Error(t, e.app.List(ctx, "cattle", nil))
	require.Error(t, e.app.SetOrderStatus(ctx, "missing", "shipped"))
}

func TestApp_ResumeAndLogout(t *testing.T) {
	e := newAppEnv(t, "vet\n")
	ctx := context.Background()
	require.NoError(t, e.app.Login(ctx))
	e.app.setUser(nil)

	e.app.resume(ctx)
	require.True(t, e.app.isLoggedIn())
	require.Equal(t, "(vet offline)", e.app.getStatus())

	require.NoError(t, e.app.Logout(ctx))
	require.False(t, e.app.isLoggedIn())
	require.False(t, e.app.auth.IsAuthenticated(ctx))
}

func TestApp_CheckOnline(t *testing.T) {
	e := newAppEnv(t, "")
	ctx := context.Background()
	require.Equal(t, "(offline)", e.app.getStatus())

	e.app.checkOnline(ctx)
	require.Equal(t, "(online)", e.app.getStatus())

	e.server.Close()
	e.app.checkOnline(ctx)
	require.Equal(t, "(offline)", e.app.getStatus())
}

func TestApp_Run(t *testing.T) {
	e := newAppEnv(t, "help\nexit\n")
	require.NoError(t, e.app.Run(context.Background()))
	require.Contains(t, e.out.String(), "Welcome to butcherdesk")
	// connectivity is known before the first prompt
	require.Contains(t, e.out.String(), "bd (online)> ")
	require.NotContains(t, e.out.String(), "bd ()> ")
	require.Contains(t, e.out.String(), "Bye!")
}
