package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/appconfig"
	"github.com/The-Promised-Neverland/hostwatch/internal/config"
	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/internal/sampler"
	"github.com/The-Promised-Neverland/hostwatch/internal/service"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Application wires the long-running parts of one process: the config
// watcher, the sampling loop and, for the monitor, the HTTP server.
type Application struct {
	config  *config.Config
	appCfg  *appconfig.Store
	loop    *sampler.Loop
	service *service.Service
	server  *http.Server
}

// NewApplication builds an application. svc and handler are nil for the
// agent, which serves no HTTP.
func NewApplication(cfg *config.Config, appCfg *appconfig.Store, loop *sampler.Loop, svc *service.Service, handler http.Handler) *Application {
	app := &Application{
		config:  cfg,
		appCfg:  appCfg,
		loop:    loop,
		service: svc,
	}
	if handler != nil {
		app.server = &http.Server{
			Addr:              cfg.ListenAddr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return app
}

// Run blocks until appCtx is cancelled or the HTTP server fails.
func (app *Application) Run(appCtx context.Context) error {
	ctx, cancel := context.WithCancel(appCtx)
	defer cancel()

	if err := app.appCfg.Watch(ctx, app.onConfigChange); err != nil {
		logger.Log.Warn("Config watcher unavailable, external edits need a restart", "err", err)
	}
	if app.loop != nil && app.samplingEnabled() {
		go app.loop.Run(ctx)
	}
	if app.server == nil {
		<-ctx.Done()
		return nil
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("HTTP server listening", "addr", app.server.Addr)
		serveErr <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	return app.Shutdown()
}

// Shutdown drops every subscriber and stops the HTTP server.
func (app *Application) Shutdown() error {
	if app.service != nil {
		app.service.Hub.CloseAll()
	}
	if app.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(ctx); err != nil {
		logger.Log.Error("HTTP server shutdown failed", "err", err)
		return err
	}
	logger.Log.Info("HTTP server stopped")
	return nil
}

func (app *Application) samplingEnabled() bool {
	return app.config.Mode() == config.ModeAgent || app.config.LocalSampling()
}

func (app *Application) onConfigChange(cfg models.MonitoredAppConfig) {
	logger.Log.Info("Monitored apps changed on disk", "apps", cfg.MonitoredApps)
	if app.service != nil {
		app.service.BroadcastConfig()
	}
}
