package service

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/alerts"
	"github.com/The-Promised-Neverland/hostwatch/internal/appconfig"
	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/The-Promised-Neverland/hostwatch/internal/ws"
)

type recordingSub struct {
	id     string
	fail   bool
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingSub) ID() string { return r.id }

func (r *recordingSub) Send(ev models.Event) error {
	if r.fail {
		return errors.New("gone")
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *recordingSub) Close() {}

func (r *recordingSub) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType()
	}
	return out
}

func (r *recordingSub) last() models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceAt(t, filepath.Join(t.TempDir(), "monitored_config.json"))
}

func newTestServiceAt(t *testing.T, path string) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg, err := appconfig.Open(path, log)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(alerts.NewStore(0), ws.NewHub(log), cfg, log)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func cpuAlert(status models.Status) models.Alert {
	return models.Alert{ServerName: "web-01", AlertType: models.AlertTypeCPU, Status: status}
}

func TestSubscribeSendsAlertsThenConfig(t *testing.T) {
	svc := newTestService(t)
	svc.Publish(cpuAlert(models.StatusAlert))

	sub := &recordingSub{id: "a"}
	if !svc.Subscribe(sub) {
		t.Fatal("Subscribe failed")
	}
	if got := sub.types(); !slices.Equal(got, []string{models.EventCurrentAlerts, models.EventCurrentConfig}) {
		t.Fatalf("events = %v", got)
	}
	first := sub.events[0].(models.CurrentAlerts)
	if len(first.Data) != 1 || first.Data[0].AlertType != models.AlertTypeCPU {
		t.Fatalf("current_alerts = %+v", first.Data)
	}
}

func TestSubscribeEmptyAlertsStillSent(t *testing.T) {
	svc := newTestService(t)
	sub := &recordingSub{id: "a"}
	svc.Subscribe(sub)
	ca := sub.events[0].(models.CurrentAlerts)
	if ca.Data == nil || len(ca.Data) != 0 {
		t.Fatalf("current_alerts data = %#v, want empty non-nil", ca.Data)
	}
}

func TestSubscribeFailingIsPruned(t *testing.T) {
	svc := newTestService(t)
	if svc.Subscribe(&recordingSub{id: "dead", fail: true}) {
		t.Fatal("Subscribe should report failure")
	}
	if svc.Hub.Count() != 0 {
		t.Fatalf("count = %d, want 0", svc.Hub.Count())
	}
}

func TestPublishBroadcastsAndPrunes(t *testing.T) {
	svc := newTestService(t)
	a, b, c := &recordingSub{id: "1"}, &recordingSub{id: "2"}, &recordingSub{id: "3"}
	svc.Subscribe(a)
	svc.Subscribe(b)
	svc.Subscribe(c)
	b.fail = true

	svc.Publish(cpuAlert(models.StatusAlert))

	if svc.Hub.Count() != 2 {
		t.Fatalf("count = %d, want 2", svc.Hub.Count())
	}
	for _, s := range []*recordingSub{a, c} {
		if s.last().EventType() != models.EventRealtimeAlert {
			t.Fatalf("%s last = %s", s.id, s.last().EventType())
		}
	}
	if len(svc.ActiveAlerts()) != 1 || len(svc.History()) != 1 {
		t.Fatalf("active=%d history=%d", len(svc.ActiveAlerts()), len(svc.History()))
	}
}

func TestConfigAddRemoveFlow(t *testing.T) {
	svc := newTestService(t)
	requester, other := &recordingSub{id: "req"}, &recordingSub{id: "other"}
	svc.Subscribe(requester)
	svc.Subscribe(other)

	svc.HandleCommand(requester, models.ConfigAdd{App: "redis"})
	if got := requester.types()[2:]; !slices.Equal(got, []string{models.EventConfigAck, models.EventCurrentConfig}) {
		t.Fatalf("requester events = %v", got)
	}
	if ack := requester.events[2].(models.ConfigAck); !ack.Success {
		t.Fatalf("ack = %+v", ack)
	}
	if got := other.types()[2:]; !slices.Equal(got, []string{models.EventCurrentConfig}) {
		t.Fatalf("other events = %v, ack must not leak", got)
	}
	cc := other.last().(models.CurrentConfig)
	if !slices.Equal(cc.Data.MonitoredApps, []string{"redis"}) {
		t.Fatalf("broadcast config = %v", cc.Data.MonitoredApps)
	}

	svc.HandleCommand(requester, models.ConfigAdd{App: "redis"})
	if ack := requester.last().(models.ConfigAck); ack.Success {
		t.Fatal("duplicate add should fail")
	}
	if got := svc.AppConfig.Snapshot().MonitoredApps; !slices.Equal(got, []string{"redis"}) {
		t.Fatalf("apps = %v, want no duplicate", got)
	}

	svc.HandleCommand(requester, models.ConfigRemove{App: "redis"})
	if cc := requester.last().(models.CurrentConfig); len(cc.Data.MonitoredApps) != 0 {
		t.Fatalf("after remove = %v", cc.Data.MonitoredApps)
	}
	svc.HandleCommand(requester, models.ConfigRemove{App: "redis"})
	if ack := requester.last().(models.ConfigAck); ack.Success {
		t.Fatal("removing absent app should fail")
	}
}

func TestHistoryCommands(t *testing.T) {
	svc := newTestService(t)
	sub := &recordingSub{id: "a"}
	svc.Subscribe(sub)
	svc.Publish(cpuAlert(models.StatusAlert))
	svc.Publish(cpuAlert(models.StatusRecovery))

	svc.HandleCommand(sub, models.GetHistory{})
	hist := sub.last().(models.AlertHistory)
	if len(hist.Data) != 2 {
		t.Fatalf("history = %d, want 2", len(hist.Data))
	}

	svc.HandleCommand(sub, models.ClearHistory{})
	if sub.last().EventType() != models.EventClearAck {
		t.Fatalf("last = %s", sub.last().EventType())
	}
	if len(svc.History()) != 0 {
		t.Fatal("history not cleared")
	}
}

func TestUnknownCommandAcksFailure(t *testing.T) {
	svc := newTestService(t)
	sub := &recordingSub{id: "a"}
	svc.Subscribe(sub)
	svc.HandleCommand(sub, models.UnknownCommand{Type: "reboot"})
	ack, ok := sub.last().(models.ConfigAck)
	if !ok || ack.Success {
		t.Fatalf("last = %+v, want failed config_ack", sub.last())
	}
}

func TestIngest(t *testing.T) {
	svc := newTestService(t)
	sub := &recordingSub{id: "a"}
	svc.Subscribe(sub)

	if _, err := svc.Ingest(models.Alert{AlertType: "CPU"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing server = %v", err)
	}
	if _, err := svc.Ingest(models.Alert{ServerName: "db-01", AlertType: "CPU", Status: "MAYBE"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status = %v", err)
	}
	if len(sub.types()) != 2 {
		t.Fatal("rejected alerts must not be broadcast")
	}

	got, err := svc.Ingest(models.Alert{ServerName: "db-01", AlertType: "CPU"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusAlert {
		t.Fatalf("status = %s, want default ALERT", got.Status)
	}
	if got.ReceivedTimestamp != "2024-05-01T12:00:00Z" || got.Timestamp != got.ReceivedTimestamp {
		t.Fatalf("timestamps = %q / %q", got.Timestamp, got.ReceivedTimestamp)
	}
	if _, ok := svc.Alerts.Active(models.AlertKey{ServerName: "db-01", AlertType: "CPU"}); !ok {
		t.Fatal("ingested alert not active")
	}
	if sub.last().EventType() != models.EventRealtimeAlert {
		t.Fatalf("last = %s", sub.last().EventType())
	}
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	svc := newTestService(t)
	var wg sync.WaitGroup
	subs := make([]*recordingSub, 20)
	for i := range subs {
		subs[i] = &recordingSub{id: string(rune('a' + i))}
	}
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			status := models.StatusAlert
			if i%2 == 1 {
				status = models.StatusRecovery
			}
			svc.Publish(cpuAlert(status))
		}
	}()
	go func() {
		defer wg.Done()
		for _, s := range subs {
			svc.Subscribe(s)
		}
	}()
	wg.Wait()

	for _, s := range subs {
		types := s.types()
		if len(types) < 2 || types[0] != models.EventCurrentAlerts || types[1] != models.EventCurrentConfig {
			t.Fatalf("%s handshake = %v", s.id, types)
		}
	}
}

// lockCheckingSub fails every send and records whether the service lock was
// free when the hub closed it.
type lockCheckingSub struct {
	id            string
	svc           *Service
	closed        bool
	lockedAtClose bool
}

func (l *lockCheckingSub) ID() string { return l.id }

func (l *lockCheckingSub) Send(models.Event) error {
	return errors.New("gone")
}

func (l *lockCheckingSub) Close() {
	l.closed = true
	if l.svc.mu.TryLock() {
		l.svc.mu.Unlock()
		return
	}
	l.lockedAtClose = true
}

func TestPublishClosesFailedSubscribersOutsideLock(t *testing.T) {
	svc := newTestService(t)
	live := &recordingSub{id: "live"}
	svc.Subscribe(live)
	dead := &lockCheckingSub{id: "dead", svc: svc}
	svc.Hub.Register(dead)

	svc.Publish(cpuAlert(models.StatusAlert))
	if !dead.closed || dead.lockedAtClose {
		t.Fatalf("closed = %v lockedAtClose = %v, want closed without the service lock", dead.closed, dead.lockedAtClose)
	}
	if svc.Hub.Count() != 1 {
		t.Fatalf("count = %d, want 1", svc.Hub.Count())
	}

	again := &lockCheckingSub{id: "again", svc: svc}
	svc.Hub.Register(again)
	svc.BroadcastConfig()
	if !again.closed || again.lockedAtClose {
		t.Fatalf("config broadcast: closed = %v lockedAtClose = %v", again.closed, again.lockedAtClose)
	}

	handshake := &lockCheckingSub{id: "handshake", svc: svc}
	if svc.Subscribe(handshake) {
		t.Fatal("Subscribe should report failure")
	}
	if !handshake.closed || handshake.lockedAtClose {
		t.Fatalf("handshake: closed = %v lockedAtClose = %v", handshake.closed, handshake.lockedAtClose)
	}
}

func TestConfigPersistenceFailureSendsError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	svc := newTestServiceAt(t, filepath.Join(dir, "monitored_config.json"))
	sub, other := &recordingSub{id: "a"}, &recordingSub{id: "b"}
	svc.Subscribe(sub)
	svc.Subscribe(other)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	svc.HandleCommand(sub, models.ConfigAdd{App: "redis"})
	ev, ok := sub.last().(models.ErrorEvent)
	if !ok || ev.Message == "" {
		t.Fatalf("last = %+v, want error event", sub.last())
	}
	if len(other.types()) != 2 {
		t.Fatalf("other events = %v, failed change must not broadcast", other.types())
	}
	if apps := svc.AppConfig.Snapshot().MonitoredApps; len(apps) != 0 {
		t.Fatalf("apps = %v, want unchanged", apps)
	}
}
