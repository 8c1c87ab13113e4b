package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/alerts"
	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

// SnapshotSource yields host metrics and the names of running processes.
type SnapshotSource interface {
	Snapshot(ctx context.Context) models.MetricSnapshot
	ProcessNames(ctx context.Context) ([]string, error)
}

type AppConfigSource interface {
	Snapshot() models.MonitoredAppConfig
}

// Publisher receives every transition the loop detects.
type Publisher interface {
	Publish(alert models.Alert)
}

// Loop samples the host on a fixed interval and publishes alert transitions.
type Loop struct {
	source    SnapshotSource
	apps      AppConfigSource
	evaluator *alerts.ThresholdEvaluator
	liveness  *alerts.LivenessChecker
	publisher Publisher
	interval  time.Duration
	log       *slog.Logger
}

func NewLoop(
	source SnapshotSource,
	apps AppConfigSource,
	evaluator *alerts.ThresholdEvaluator,
	liveness *alerts.LivenessChecker,
	publisher Publisher,
	interval time.Duration,
	log *slog.Logger,
) *Loop {
	return &Loop{
		source:    source,
		apps:      apps,
		evaluator: evaluator,
		liveness:  liveness,
		publisher: publisher,
		interval:  interval,
		log:       log,
	}
}

// Run ticks once immediately and then every interval until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	l.log.Info("Sampling loop started", "interval", l.interval)
	l.Tick(ctx)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("Sampling loop stopped")
			return
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick runs one sampling pass and returns the number of published alerts.
// A panic inside the pass is logged and the pass abandoned.
func (l *Loop) Tick(ctx context.Context) (published int) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("Sampling tick panicked", "err", fmt.Sprint(r))
		}
	}()

	snap := l.source.Snapshot(ctx)
	for _, a := range l.evaluator.Evaluate(snap) {
		l.publisher.Publish(a)
		published++
	}

	names, err := l.source.ProcessNames(ctx)
	if err != nil {
		l.log.Warn("Process list unavailable, skipping liveness check", "err", err)
		return published
	}
	for _, a := range l.liveness.Check(names, l.apps.Snapshot()) {
		l.publisher.Publish(a)
		published++
	}
	return published
}
