package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/client/credentials"
	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/logging"
	"github.com/google/uuid"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type AuthenticatedClient struct {
	baseURL          string
	doer             Doer
	store            *credentials.Store
	logger           logging.Logger
	refreshPath      string
	onSessionExpired func(ctx context.Context, err error)
	timeout          time.Duration

	mu         sync.Mutex
	refreshing bool
	queue      []*pendingRequest
	lastTurn   *dispatchTurn
	// defaultAuth wins over the stored token while preferDefault is set:
	// the last refreshed token could not be persisted.
	defaultAuth   string
	preferDefault bool
}

type Option func(*AuthenticatedClient)

// WithDoer replaces the HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *AuthenticatedClient) {
		c.doer = d
	}
}

// WithTimeout bounds every call, the refresh included, so a hung refresh
// cannot hold queued requests forever. It applies to an *http.Client doer
// regardless of option order; a custom Doer handles its own deadlines.
func WithTimeout(d time.Duration) Option {
	return func(c *AuthenticatedClient) {
		c.timeout = d
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *AuthenticatedClient) {
		c.logger = l
	}
}

// WithRefreshPath overrides the token refresh endpoint path.
func WithRefreshPath(path string) Option {
	return func(c *AuthenticatedClient) {
		c.refreshPath = path
	}
}

// WithSessionExpiredHook registers fn to run after a rejected refresh, once
// credentials have been cleared. The UI uses it to ask for a new sign-in.
func WithSessionExpiredHook(fn func(ctx context.Context, err error)) Option {
	return func(c *AuthenticatedClient) {
		c.onSessionExpired = fn
	}
}

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, store *credentials.Store, opts ...Option) (*AuthenticatedClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if store == nil {
		return nil, errors.New("credential store required")
	}

	c := &AuthenticatedClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		doer:        http.DefaultClient,
		store:       store,
		logger:      logging.NopLogger{},
		refreshPath: common.RefreshPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	if hc, ok := c.doer.(*http.Client); ok && c.timeout > 0 {
		bounded := *hc
		bounded.Timeout = c.timeout
		c.doer = &bounded
	}
	c.logger = c.logger.With("module", "apiclient")
	return c, nil
}

// Do sends req and returns the 2xx response, transparently refreshing the
// access token on 401. req itself is not modified.
func (c *AuthenticatedClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &Error{Kind: KindRequestFailed, Err: errors.New("nil request")}
	}
	r := req.clone()
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	return c.execute(ctx, r, "")
}

// execute sends r and classifies the reply. A non-empty token is used as the
// bearer instead of the stored one; replays use it.
func (c *AuthenticatedClient) execute(ctx context.Context, r *Request, token string) (*Response, error) {
	resp, err := c.send(ctx, r, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !r.retried {
		if refresh, ok := c.store.RefreshToken(ctx); ok {
			c.logger.Debug(ctx, "unauthorized response", "kind", KindAuthExpired.String(),
				"method", r.Method, "path", r.Path, "request_id", r.Header.Get(common.RequestIDHeaderName))
			return c.handleUnauthorized(ctx, r, refresh)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindRequestFailed,
			Method:     r.Method,
			Path:       r.Path,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
		}
	}
	return resp, nil
}

// send performs one HTTP round trip and reads the whole body.
func (c *AuthenticatedClient) send(ctx context.Context, r *Request, token string) (*Response, error) {
	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	if r.dispatched != nil {
		ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{WroteHeaders: r.dispatched})
	}
	hreq, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Method: r.Method, Path: r.Path, Err: err}
	}
	hreq.Header = r.Header.Clone()
	if hreq.Header.Get("Accept") == "" {
		hreq.Header.Set("Accept", "application/json")
	}
	if r.Body != nil && hreq.Header.Get("Content-Type") == "" {
		hreq.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		hreq.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
	} else {
		c.authorize(ctx, hreq)
	}

	return c.roundTrip(hreq, r.Method, r.Path)
}

// authorize attaches the stored access token, falling back to the default
// header set by the last refresh. A refreshed token that could not be
// persisted takes precedence over the stale stored one. It never fails.
func (c *AuthenticatedClient) authorize(ctx context.Context, hreq *http.Request) {
	c.mu.Lock()
	def, preferDefault := c.defaultAuth, c.preferDefault
	c.mu.Unlock()

	if preferDefault && def != "" {
		hreq.Header.Set(common.AuthorizationHeaderName, def)
		return
	}
	if token, ok := c.store.AccessToken(ctx); ok {
		hreq.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
		return
	}

	if def != "" && hreq.Header.Get(common.AuthorizationHeaderName) == "" {
		hreq.Header.Set(common.AuthorizationHeaderName, def)
	}
}

func (c *AuthenticatedClient) roundTrip(hreq *http.Request, method, path string) (*Response, error) {
	resp, err := c.doer.Do(hreq)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *AuthenticatedClient) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *AuthenticatedClient) Post(ctx context.Context, path string, in any) (*Response, error) {
	return c.doJSONBody(ctx, http.MethodPost, path, in)
}

func (c *AuthenticatedClient) Put(ctx context.Context, path string, in any) (*Response, error) {
	return c.doJSONBody(ctx, http.MethodPut, path, in)
}

func (c *AuthenticatedClient) Patch(ctx context.Context, path string, in any) (*Response, error) {
	return c.doJSONBody(ctx, http.MethodPatch, path, in)
}

func (c *AuthenticatedClient) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DoJSON sends in as JSON (nil for no body) and decodes the reply into out
// (nil to ignore it).
func (c *AuthenticatedClient) DoJSON(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.doJSONBody(ctx, method, path, in)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return &Error{Kind: KindRequestFailed, Method: method, Path: path, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *AuthenticatedClient) doJSONBody(ctx context.Context, method, path string, in any) (*Response, error) {
	req, err := NewJSONRequest(method, path, in)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Method: method, Path: path, Err: fmt.Errorf("encode request: %w", err)}
	}
	return c.Do(ctx, req)
}
