package daemon

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/config"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
	kardianos "github.com/kardianos/service"
)

const stopTimeout = 10 * time.Second

// DaemonManager runs the application under the OS service manager and
// implements the install/uninstall/start/stop/restart verbs.
type DaemonManager struct {
	cfg       *config.Config
	app       *Application
	appCtx    context.Context
	appCancel context.CancelFunc
	done      chan struct{}
}

func NewDaemonManager(cfg *config.Config, app *Application) *DaemonManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &DaemonManager{
		cfg:       cfg,
		app:       app,
		appCtx:    ctx,
		appCancel: cancel,
		done:      make(chan struct{}),
	}
}

func (m *DaemonManager) newService() (kardianos.Service, error) {
	if m.app == nil {
		return nil, fmt.Errorf("application cannot be nil")
	}
	return kardianos.New(m, &kardianos.Config{
		Name:        m.cfg.ServiceName(),
		DisplayName: m.cfg.ServiceDisplayName(),
		Description: m.cfg.ServiceDescription(),
		Option: kardianos.KeyValue{
			"Restart":   "always",
			"OnFailure": "restart",
		},
	})
}

func (m *DaemonManager) Start(s kardianos.Service) error {
	logger.Log.Info("Kardianos starting service", "service", s.String(), "platform", s.Platform())
	go func() {
		defer close(m.done)
		if err := m.app.Run(m.appCtx); err != nil {
			logger.Log.Error("Application stopped with error", "err", err)
		}
	}()
	return nil
}

func (m *DaemonManager) Stop(s kardianos.Service) error {
	logger.Log.Info("Kardianos stopping service", "service", s.String())
	m.appCancel()
	select {
	case <-m.done:
	case <-time.After(stopTimeout):
		logger.Log.Warn("Application did not stop in time")
	}
	return nil
}

func (m *DaemonManager) InstallDaemon() error {
	s, err := m.newService()
	if err != nil {
		return err
	}
	if err := s.Install(); err != nil {
		if runtime.GOOS == "windows" {
			return fmt.Errorf("failed to install Windows service (requires administrator privileges): %w", err)
		}
		return fmt.Errorf("failed to install service: %w", err)
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("service installed but failed to start: %w", err)
	}
	return nil
}

func (m *DaemonManager) UninstallDaemon() error {
	s, err := m.newService()
	if err != nil {
		return err
	}
	if err := s.Stop(); err != nil {
		logger.Log.Warn("Failed to stop service before uninstall", "err", err)
	}
	return s.Uninstall()
}

func (m *DaemonManager) RestartDaemon() error {
	s, err := m.newService()
	if err != nil {
		return err
	}
	return s.Restart()
}

func (m *DaemonManager) StartDaemon() error {
	s, err := m.newService()
	if err != nil {
		return err
	}
	return s.Start()
}

func (m *DaemonManager) StopDaemon() error {
	s, err := m.newService()
	if err != nil {
		return err
	}
	return s.Stop()
}

// Run blocks under the service manager, or interactively until interrupted.
func (m *DaemonManager) Run() error {
	s, err := m.newService()
	if err != nil {
		return err
	}
	return s.Run()
}

// Control dispatches a CLI verb. Unknown verbs are an error.
func (m *DaemonManager) Control(verb string) error {
	switch verb {
	case "install":
		return m.InstallDaemon()
	case "uninstall":
		return m.UninstallDaemon()
	case "start":
		return m.StartDaemon()
	case "stop":
		return m.StopDaemon()
	case "restart":
		return m.RestartDaemon()
	case "run", "":
		return m.Run()
	default:
		return fmt.Errorf("unknown command %q (use install, uninstall, start, stop, restart or run)", verb)
	}
}
