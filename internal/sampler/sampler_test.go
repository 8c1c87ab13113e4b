package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/alerts"
	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

type fakeSource struct {
	mu       sync.Mutex
	cpu      []float64
	names    []string
	namesErr error
	panicOn  int
	calls    int
}

func (f *fakeSource) Snapshot(ctx context.Context) models.MetricSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panicOn == f.calls {
		panic("sensor exploded")
	}
	v := 0.0
	if len(f.cpu) > 0 {
		v = f.cpu[0]
		f.cpu = f.cpu[1:]
	}
	return models.MetricSnapshot{CPUPercent: v}
}

func (f *fakeSource) ProcessNames(ctx context.Context) ([]string, error) {
	return f.names, f.namesErr
}

type staticApps models.MonitoredAppConfig

func (s staticApps) Snapshot() models.MonitoredAppConfig {
	return models.MonitoredAppConfig(s).Clone()
}

type recorder struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (r *recorder) Publish(a models.Alert) {
	r.mu.Lock()
	r.alerts = append(r.alerts, a)
	r.mu.Unlock()
}

func (r *recorder) all() []models.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Alert(nil), r.alerts...)
}

func newLoop(src *fakeSource, apps []string, pub Publisher) *Loop {
	eval := alerts.NewThresholdEvaluator("web-01", alerts.Thresholds{CPUPercent: 90, RAMPercent: 90, DiskPercent: 90, Temperature: 85}, alerts.DefaultHysteresis, "/")
	return NewLoop(src, staticApps{MonitoredApps: apps}, eval, alerts.NewLivenessChecker("web-01"), pub, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTickPublishesMetricAndAppAlerts(t *testing.T) {
	src := &fakeSource{cpu: []float64{95}, names: []string{"systemd", "sshd"}}
	rec := &recorder{}
	l := newLoop(src, []string{"nginx"}, rec)

	if n := l.Tick(context.Background()); n != 2 {
		t.Fatalf("published = %d, want 2", n)
	}
	got := rec.all()
	if got[0].AlertType != models.AlertTypeCPU || got[0].Status != models.StatusAlert {
		t.Fatalf("first = %+v, want CPU ALERT", got[0])
	}
	if got[1].AlertType != "APP_nginx" || got[1].Status != models.StatusAlert {
		t.Fatalf("second = %+v, want APP_nginx ALERT", got[1])
	}
}

func TestTickNginxComesBack(t *testing.T) {
	src := &fakeSource{names: []string{"sshd"}}
	rec := &recorder{}
	l := newLoop(src, []string{"nginx"}, rec)

	l.Tick(context.Background())
	l.Tick(context.Background())
	src.names = []string{"sshd", "nginx: worker process"}
	l.Tick(context.Background())

	got := rec.all()
	if len(got) != 2 {
		t.Fatalf("alerts = %+v, want ALERT then RECOVERY", got)
	}
	if got[0].Status != models.StatusAlert || got[1].Status != models.StatusRecovery {
		t.Fatalf("statuses = %s, %s", got[0].Status, got[1].Status)
	}
}

func TestTickSkipsLivenessOnProcessError(t *testing.T) {
	src := &fakeSource{namesErr: errors.New("permission denied")}
	rec := &recorder{}
	l := newLoop(src, []string{"nginx"}, rec)

	if n := l.Tick(context.Background()); n != 0 {
		t.Fatalf("published = %d, want 0", n)
	}
}

func TestTickRecoversPanic(t *testing.T) {
	src := &fakeSource{panicOn: 1, cpu: []float64{95}}
	rec := &recorder{}
	l := newLoop(src, nil, rec)

	l.Tick(context.Background())
	l.Tick(context.Background())
	if got := rec.all(); len(got) != 1 || got[0].AlertType != models.AlertTypeCPU {
		t.Fatalf("alerts after panic = %+v", got)
	}
}

func TestRunTicksImmediatelyAndStops(t *testing.T) {
	src := &fakeSource{cpu: []float64{95}}
	rec := &recorder{}
	l := newLoop(src, nil, rec)
	l.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(rec.all()) == 0 {
		select {
		case <-deadline:
			t.Fatal("no immediate tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
