package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/butcherdesk/internal/client/credentials"
	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal ERP backend: one protected resource plus the
// login and refresh endpoints.
type fakeBackend struct {
	mu            sync.Mutex
	validAccess   string
	validRefresh  string
	nextAccess    string
	rejectRefresh bool

	// refreshGate, when set, runs inside the refresh handler before it answers.
	refreshGate func()

	refreshCalls   atomic.Int32
	refreshBodies  []string
	refreshHeaders []http.Header
	protectedCalls atomic.Int32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		validAccess:  "access-1",
		validRefresh: "refresh-1",
		nextAccess:   "access-2",
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == common.RefreshPath:
		b.handleRefresh(w, r)
	case r.Method == http.MethodPost && r.URL.Path == common.LoginPath:
		b.handleLogin(w, r)
	case r.URL.Path == "/orders/":
		b.protectedCalls.Add(1)
		b.mu.Lock()
		want := common.BearerValue(b.validAccess)
		b.mu.Unlock()
		if r.Header.Get(common.AuthorizationHeaderName) != want {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "status": "new"}})
	case r.URL.Path == "/always-unauthorized/":
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
	}
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	var in refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	b.refreshBodies = append(b.refreshBodies, in.Refresh)
	b.refreshHeaders = append(b.refreshHeaders, r.Header.Clone())
	gate := b.refreshGate
	b.mu.Unlock()

	if gate != nil {
		gate()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rejectRefresh || in.Refresh != b.validRefresh {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
		return
	}
	b.validAccess = b.nextAccess
	writeJSON(w, http.StatusOK, refreshResponse{Access: b.nextAccess})
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Username != "butcher" || in.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "bad credentials"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, loginResponse{Access: b.validAccess, Refresh: b.validRefresh})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	backend *fakeBackend
	server  *httptest.Server
	mem     *credentials.MemoryBackend
	store   *credentials.Store
	client  *AuthenticatedClient
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{backend: newFakeBackend(), mem: credentials.NewMemoryBackend()}
	h.server = newTestServer(t, h.backend)

	h.store = credentials.NewStore(h.mem)
	c, err := New(h.server.URL, h.store, append([]Option{WithDoer(h.server.Client())}, opts...)...)
	require.NoError(t, err)
	h.client = c
	return h
}

func (h *harness) seed(t *testing.T, access, refresh string) {
	t.Helper()
	entries := map[string]string{}
	if access != "" {
		entries[credentials.DefaultAccessKey] = access
	}
	if refresh != "" {
		entries[credentials.DefaultRefreshKey] = refresh
	}
	require.NoError(t, h.mem.SetMany(context.Background(), entries))
}

func (h *harness) queueLen() int {
	h.client.mu.Lock()
	defer h.client.mu.Unlock()
	return len(h.client.queue)
}

func (h *harness) isRefreshing() bool {
	h.client.mu.Lock()
	defer h.client.mu.Unlock()
	return h.client.refreshing
}

// doerFunc adapts a function to Doer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestServer(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
