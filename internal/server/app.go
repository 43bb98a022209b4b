// Package server wires and runs the butcherdesk development backend: demo
// users, sample ERP data and the REST API, with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/logging"
	"github.com/dmitrijs2005/butcherdesk/internal/server/catalog"
	"github.com/dmitrijs2005/butcherdesk/internal/server/config"
	"github.com/dmitrijs2005/butcherdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/butcherdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/butcherdesk/internal/server/users"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *users.Service
	catalog     *catalog.Service
	handler     http.Handler
}

// demoUsers are created on start, one per role.
var demoUsers = []struct {
	userName, fullName, role string
}{
	{"admin", "Shop Owner", users.RoleAdmin},
	{"staff", "Front Desk", users.RoleStaff},
	{"vet", "Dr. Ozols", users.RoleVeterinarian},
	{"supplier", "Lejas Farm", users.RoleSupplier},
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("error generating secret key: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	repos, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error opening storage: %w", err)
	}

	us := users.NewService(repos.Users(), c)
	for _, u := range demoUsers {
		_, err := us.Register(ctx, u.userName, u.fullName, u.role, c.DemoPassword)
		// accounts survive restarts in PostgreSQL
		if err != nil && !errors.Is(err, common.ErrorValidation) {
			_ = repos.Close()
			return nil, fmt.Errorf("seeding users: %w", err)
		}
	}

	cs := catalog.NewService()
	cs.Seed()

	h := httpapi.NewRouter(httpapi.Options{
		Users:    us,
		Catalog:  cs,
		Logger:   logger,
		BasePath: c.BasePath,
	})

	return &App{config: c, logger: logger, repos: repos, userService: us, catalog: cs, handler: h}, nil
}

// Handler exposes the routes, mainly for httptest.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Run serves until SIGINT/SIGTERM or ctx is done, then drains in-flight
// requests for at most ShutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "failed to close storage", "error", err)
		}
	}()

	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: app.handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.logger.Info(gctx, "Starting HTTP server", "address", app.config.EndpointAddr, "base_path", app.config.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(gctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), app.config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
