package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/google/uuid"
)

// pendingRequest is a request parked while another call refreshes the token.
// done is buffered so the drain never blocks on a caller that gave up.
// A replay goes out only once prev has passed, and passes its own turn when
// its headers are written, or when its round trip ends for a Doer that
// reports nothing. Replays are thus reissued in queue order.
type pendingRequest struct {
	req  *Request
	done chan refreshOutcome
	prev *dispatchTurn
	own  *dispatchTurn
}

// dispatchTurn is passed once the request holding it has been written out,
// or will never be.
type dispatchTurn struct {
	ch   chan struct{}
	once sync.Once
}

func newDispatchTurn() *dispatchTurn {
	return &dispatchTurn{ch: make(chan struct{})}
}

func (t *dispatchTurn) pass() {
	t.once.Do(func() { close(t.ch) })
}

type refreshOutcome struct {
	token string
	err   *Error
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// handleUnauthorized runs the IDLE/REFRESHING state machine for a request
// that just got its first 401.
func (c *AuthenticatedClient) handleUnauthorized(ctx context.Context, r *Request, refreshToken string) (*Response, error) {
	r.retried = true

	c.mu.Lock()
	if c.refreshing {
		p := &pendingRequest{req: r, done: make(chan refreshOutcome, 1), prev: c.lastTurn, own: newDispatchTurn()}
		c.queue = append(c.queue, p)
		c.lastTurn = p.own
		queued := len(c.queue)
		c.mu.Unlock()

		c.logger.Debug(ctx, "waiting for token refresh", "path", r.Path, "queued", queued)
		return c.await(ctx, p)
	}
	lead := newDispatchTurn()
	defer lead.pass()
	c.refreshing = true
	c.lastTurn = lead
	c.mu.Unlock()

	// One caller's cancellation must not fail everyone waiting on this refresh.
	rctx := context.WithoutCancel(ctx)

	access, rerr := c.refresh(rctx, refreshToken)
	if rerr != nil {
		if err := c.store.ClearTokens(rctx); err != nil {
			c.logger.Warn(ctx, "failed to clear credentials", "error", err)
		}
		n := c.settle(refreshOutcome{err: rerr}, false)
		c.logger.Warn(ctx, "token refresh failed, session ended", "error", rerr, "failed_waiters", n)
		if c.onSessionExpired != nil {
			c.onSessionExpired(ctx, rerr)
		}
		return nil, rerr
	}

	persisted := true
	if err := c.store.StoreTokens(rctx, access, refreshToken); err != nil {
		c.logger.Warn(ctx, "failed to persist refreshed token", "error", err)
		persisted = false
	}
	n := c.settle(refreshOutcome{token: access}, !persisted)
	c.logger.Info(ctx, "access token refreshed", "released", n)

	r.dispatched = lead.pass
	return c.execute(ctx, r, access)
}

// await blocks until the refresh this request is queued on settles, then
// replays it with the new token once the record ahead of it has gone out.
// A done context stops the wait only; the record is still settled by the
// drain and its turn still passed along.
func (c *AuthenticatedClient) await(ctx context.Context, p *pendingRequest) (*Response, error) {
	var out refreshOutcome
	select {
	case out = <-p.done:
	case <-ctx.Done():
		go p.handOff()
		return nil, &Error{Kind: KindRequestFailed, Method: p.req.Method, Path: p.req.Path, Err: ctx.Err()}
	}
	if out.err != nil {
		p.own.pass()
		return nil, out.err
	}

	select {
	case <-p.prev.ch:
	case <-ctx.Done():
		go p.handOff()
		return nil, &Error{Kind: KindRequestFailed, Method: p.req.Method, Path: p.req.Path, Err: ctx.Err()}
	}
	defer p.own.pass()
	p.req.dispatched = p.own.pass
	return c.execute(ctx, p.req, out.token)
}

// handOff passes the record's turn on behalf of a caller that stopped waiting.
func (p *pendingRequest) handOff() {
	<-p.prev.ch
	p.own.pass()
}

// settle leaves REFRESHING: it updates the default Authorization header,
// empties the queue and resets the flag in one critical section, then
// hands the outcome to the parked requests in arrival order. Their replays
// are reissued in that same order. preferDefault marks a new token that only
// lives in the default header. It returns how many requests were parked.
func (c *AuthenticatedClient) settle(out refreshOutcome, preferDefault bool) int {
	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.refreshing = false
	c.lastTurn = nil
	if out.err == nil {
		c.defaultAuth = common.BearerValue(out.token)
	} else {
		c.defaultAuth = ""
	}
	c.preferDefault = preferDefault
	c.mu.Unlock()

	for _, p := range queue {
		p.done <- out
	}
	return len(queue)
}

// refresh exchanges refreshToken for a new access token. The call goes
// straight to the transport: no stored token and no 401 handling.
func (c *AuthenticatedClient) refresh(ctx context.Context, refreshToken string) (string, *Error) {
	fail := func(status int, body []byte, err error) *Error {
		return &Error{Kind: KindRefreshFailed, Method: http.MethodPost, Path: c.refreshPath,
			StatusCode: status, Body: body, Err: err}
	}

	var out refreshResponse
	status, body, err := c.postUnauthenticated(ctx, c.refreshPath, refreshRequest{Refresh: refreshToken}, &out)
	if err != nil {
		return "", fail(status, body, err)
	}
	if out.Access == "" {
		return "", fail(status, body, errNoAccessInResponse)
	}
	return out.Access, nil
}

// postUnauthenticated posts in as JSON without any Authorization header and
// decodes a 2xx reply into out.
func (c *AuthenticatedClient) postUnauthenticated(ctx context.Context, path string, in, out any) (int, []byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, nil, err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.roundTrip(hreq, http.MethodPost, path)
	if err != nil {
		// roundTrip already wrapped it; keep only the cause.
		var e *Error
		if errors.As(err, &e) && e.Err != nil {
			return e.StatusCode, nil, e.Err
		}
		return 0, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, resp.Body, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return resp.StatusCode, resp.Body, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, resp.Body, nil
}
