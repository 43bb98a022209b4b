package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/logging"
	"github.com/dmitrijs2005/butcherdesk/internal/server/config"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddr = "127.0.0.1:0"
	cfg.DemoPassword = "pw"

	app, err := NewApp(context.Background(), cfg, logging.NopLogger{})
	require.NoError(t, err)
	return app
}

func TestNewApp_SeedsDemoAccounts(t *testing.T) {
	app := newTestApp(t)

	for _, u := range demoUsers {
		body, _ := json.Marshal(map[string]string{"username": u.userName, "password": "pw"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, u.userName)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/", nil)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestNewApp_GeneratesSecretWhenEmpty(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = ""

	_, err := NewApp(context.Background(), cfg, logging.NopLogger{})
	require.NoError(t, err)
	require.Len(t, cfg.SecretKey, 64)
}
