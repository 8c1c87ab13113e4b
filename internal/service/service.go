package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/alerts"
	"github.com/The-Promised-Neverland/hostwatch/internal/appconfig"
	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/internal/ws"
)

var (
	ErrMissingFields = errors.New("server_name and alert_type are required")
	ErrInvalidStatus = errors.New("status must be ALERT or RECOVERY")
)

// Service owns the alert state, the subscriber hub and the monitored app
// config. Publish and Subscribe are serialised so a new subscriber sees every
// transition exactly once: either in its initial current_alerts or as a
// realtime_alert afterwards.
type Service struct {
	Alerts    *alerts.Store
	Hub       *ws.Hub
	AppConfig *appconfig.Store

	mu  sync.Mutex
	log *slog.Logger
	now func() time.Time
}

func NewService(store *alerts.Store, hub *ws.Hub, appCfg *appconfig.Store, log *slog.Logger) *Service {
	return &Service{
		Alerts:    store,
		Hub:       hub,
		AppConfig: appCfg,
		log:       log,
		now:       time.Now,
	}
}

// Publish records a transition and fans it out to every subscriber. Failed
// subscribers are pruned after mu is released so their Close never runs
// under it.
func (s *Service) Publish(alert models.Alert) {
	s.mu.Lock()
	s.Alerts.Apply(alert)
	delivered, failed := s.Hub.Deliver(models.NewRealtimeAlert(alert))
	s.mu.Unlock()
	s.Hub.Prune(failed)
	s.log.Info("Alert published",
		"server", alert.ServerName,
		"type", alert.AlertType,
		"status", alert.Status,
		"delivered", delivered,
	)
}

// Subscribe registers sub and sends it the active alerts followed by the
// current config. It reports false when sub was pruned during the handshake.
func (s *Service) Subscribe(sub ws.Subscriber) bool {
	s.mu.Lock()
	s.Hub.Register(sub)
	err := sub.Send(models.NewCurrentAlerts(s.Alerts.ListActive()))
	if err == nil {
		err = sub.Send(models.NewCurrentConfig(s.AppConfig.Snapshot()))
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("Handshake failed, pruning subscriber", "id", sub.ID(), "err", err)
		s.Hub.Unregister(sub)
		return false
	}
	return true
}

func (s *Service) Unsubscribe(sub ws.Subscriber) {
	s.Hub.Unregister(sub)
}

// BroadcastConfig pushes the current monitored app config to everyone.
func (s *Service) BroadcastConfig() {
	s.mu.Lock()
	_, failed := s.Hub.Deliver(models.NewCurrentConfig(s.AppConfig.Snapshot()))
	s.mu.Unlock()
	s.Hub.Prune(failed)
}

// HandleCommand executes one client command on behalf of sub. Replies go to
// sub only; successful config changes are then broadcast to all.
func (s *Service) HandleCommand(sub ws.Subscriber, cmd models.Command) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Command handler panicked", "by", sub.ID(), "panic", r)
			s.Hub.SendTo(sub, models.NewErrorEvent("command failed"))
		}
	}()
	switch c := cmd.(type) {
	case models.ConfigAdd:
		_, err := s.AppConfig.Add(c.App)
		s.ackConfig(sub, err, fmt.Sprintf("'%s' added to monitored apps", c.App))
	case models.ConfigRemove:
		_, err := s.AppConfig.Remove(c.App)
		s.ackConfig(sub, err, fmt.Sprintf("'%s' removed from monitored apps", c.App))
	case models.GetHistory:
		s.Hub.SendTo(sub, models.NewAlertHistory(s.Alerts.ListHistory()))
	case models.ClearHistory:
		s.Alerts.ClearHistory()
		s.log.Info("Alert history cleared", "by", sub.ID())
		s.Hub.SendTo(sub, models.NewClearAck("Alert history cleared"))
	default:
		s.Hub.SendTo(sub, models.NewConfigAck(false, fmt.Sprintf("unknown message type %q", cmd.CommandType())))
	}
}

// ackConfig replies to a config command. Rejections of the request itself
// are a failed config_ack; anything else, such as a persistence failure, is
// reported as an error event.
func (s *Service) ackConfig(sub ws.Subscriber, err error, okMessage string) {
	switch {
	case errors.Is(err, appconfig.ErrInvalidApp),
		errors.Is(err, appconfig.ErrAlreadyMonitored),
		errors.Is(err, appconfig.ErrNotMonitored):
		s.log.Warn("Config change rejected", "by", sub.ID(), "err", err)
		s.Hub.SendTo(sub, models.NewConfigAck(false, err.Error()))
		return
	case err != nil:
		s.log.Error("Config change failed", "by", sub.ID(), "err", err)
		s.Hub.SendTo(sub, models.NewErrorEvent(err.Error()))
		return
	}
	s.Hub.SendTo(sub, models.NewConfigAck(true, okMessage))
	s.BroadcastConfig()
}

// Ingest validates an alert pushed by a remote agent, stamps its receive
// time and publishes it. A missing status means ALERT.
func (s *Service) Ingest(alert models.Alert) (models.Alert, error) {
	if alert.ServerName == "" || alert.AlertType == "" {
		return alert, ErrMissingFields
	}
	if alert.Status == "" {
		alert.Status = models.StatusAlert
	}
	if !alert.Status.Valid() {
		return alert, fmt.Errorf("%w: got %q", ErrInvalidStatus, alert.Status)
	}
	received := models.FormatTimestamp(s.now())
	alert.ReceivedTimestamp = received
	if alert.Timestamp == "" {
		alert.Timestamp = received
	}
	s.Publish(alert)
	return alert, nil
}

func (s *Service) ActiveAlerts() []models.Alert {
	return s.Alerts.ListActive()
}

func (s *Service) History() []models.Alert {
	return s.Alerts.ListHistory()
}
