package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/client/apiclient"
	"github.com/dmitrijs2005/butcherdesk/internal/client/config"
	"github.com/dmitrijs2005/butcherdesk/internal/client/credentials"
	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
	"github.com/dmitrijs2005/butcherdesk/internal/client/services"
	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	store     *credentials.Store
	client    services.SessionClient
	auth      services.AuthService
	catalog   *services.Catalog
	orders    *services.OrderService
	documents *services.DocumentService
	reader    *bufio.Reader
	out       io.Writer

	mu   sync.Mutex
	user *models.User
	mode Mode
}

// NewApp opens the credential store configured in c and builds the API
// client on top of it.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	backend, err := credentials.NewBackend(ctx, c.Backend())
	if err != nil {
		return nil, fmt.Errorf("error opening credential store: %w", err)
	}
	store := credentials.NewStore(backend, credentials.WithLogger(logger))

	a := &App{config: c, logger: logger, store: store, reader: bufio.NewReader(in), out: out, mode: ModeOffline}

	client, err := apiclient.New(c.ServerBaseURL, store,
		apiclient.WithTimeout(c.RequestTimeout),
		apiclient.WithLogger(logger),
		apiclient.WithSessionExpiredHook(a.onSessionExpired),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	a.attach(client)
	return a, nil
}

func (a *App) attach(client services.SessionClient) {
	a.client = client
	a.auth = services.NewAuthService(client)
	a.catalog = services.NewCatalog(client)
	a.orders = services.NewOrderService(client)
	a.documents = services.NewDocumentService(client)
}

// Run resumes a stored session if there is one, checks connectivity once,
// starts the online watcher and serves the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Warn(ctx, "failed to close credential store", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to butcherdesk (type 'help' for commands)")
	a.resume(ctx)
	a.checkOnline(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

// resume picks up a session left by a previous run.
func (a *App) resume(ctx context.Context) {
	if !a.auth.IsAuthenticated(ctx) {
		return
	}
	u, err := a.auth.Me(ctx)
	if err != nil {
		a.logger.Info(ctx, "stored session not usable", "error", err)
		return
	}
	a.setUser(u)
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Username, u.Role)
}

// onSessionExpired runs after the backend rejected the refresh token.
func (a *App) onSessionExpired(_ context.Context, _ error) {
	a.setUser(nil)
	fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

func (a *App) currentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) isLoggedIn() bool {
	return a.currentUser() != nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.user != nil {
		s = a.user.Username + " "
	}
	s += string(a.mode)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher polls the health endpoint every interval and
// flips the mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := a.client.Get(ctx, common.HealthPath, nil); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
