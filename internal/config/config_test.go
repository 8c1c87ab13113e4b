package config

import (
	"testing"
	"time"
)

func TestNewDefaultsPerMode(t *testing.T) {
	t.Setenv("SAMPLE_INTERVAL", "")
	t.Setenv("SERVICE_NAME", "")

	monitor := New(ModeMonitor)
	if got := monitor.SampleInterval(); got != 2*time.Second {
		t.Fatalf("monitor interval = %v, want 2s", got)
	}
	if monitor.ServiceName() != "HostwatchMonitor" {
		t.Fatalf("monitor service name = %q", monitor.ServiceName())
	}

	agent := New(ModeAgent)
	if got := agent.SampleInterval(); got != 10*time.Second {
		t.Fatalf("agent interval = %v, want 10s", got)
	}
	if agent.CPUThreshold() != 90 || agent.TempThreshold() != 85 || agent.Hysteresis() != 5 {
		t.Fatalf("unexpected threshold defaults: cpu=%v temp=%v h=%v", agent.CPUThreshold(), agent.TempThreshold(), agent.Hysteresis())
	}
	if agent.ProcessCacheTTL() != 5*time.Second {
		t.Fatalf("cache ttl = %v", agent.ProcessCacheTTL())
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("CPU_THRESHOLD", "75.5")
	t.Setenv("SAMPLE_INTERVAL", "4")
	t.Setenv("HISTORY_LIMIT", "0")
	t.Setenv("LOCAL_SAMPLING", "false")
	t.Setenv("INTERNAL_TOKEN", "s3cret")
	t.Setenv("SERVER_NAME", "web-01")

	cfg := New(ModeMonitor)
	if cfg.CPUThreshold() != 75.5 {
		t.Fatalf("cpu threshold = %v", cfg.CPUThreshold())
	}
	if cfg.SampleInterval() != 4*time.Second {
		t.Fatalf("interval = %v", cfg.SampleInterval())
	}
	if cfg.HistoryLimit() != 0 {
		t.Fatalf("history limit = %d", cfg.HistoryLimit())
	}
	if cfg.LocalSampling() {
		t.Fatal("local sampling should be disabled")
	}
	if cfg.InternalToken() != "s3cret" || cfg.ServerName() != "web-01" {
		t.Fatalf("token=%q server=%q", cfg.InternalToken(), cfg.ServerName())
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "-4")
	t.Setenv("RAM_THRESHOLD", "lots")
	t.Setenv("SAMPLE_INTERVAL", "0")

	cfg := New(ModeMonitor)
	if cfg.HistoryLimit() != 1000 {
		t.Fatalf("history limit = %d, want default", cfg.HistoryLimit())
	}
	if cfg.RAMThreshold() != 90 {
		t.Fatalf("ram threshold = %v, want default", cfg.RAMThreshold())
	}
	if cfg.SampleInterval() != time.Second {
		t.Fatalf("interval = %v, want 1s floor", cfg.SampleInterval())
	}
}

func TestGinModeFallsBackToRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "verbose")
	if got := New(ModeMonitor).GinMode(); got != "release" {
		t.Fatalf("gin mode = %q", got)
	}
	t.Setenv("GIN_MODE", "debug")
	if got := New(ModeMonitor).GinMode(); got != "debug" {
		t.Fatalf("gin mode = %q", got)
	}
}

func TestCPUWindowFitsInsideInterval(t *testing.T) {
	cases := []struct {
		interval string
		want     time.Duration
	}{
		{"1", 500 * time.Millisecond},
		{"2", time.Second},
		{"10", time.Second},
		{"0", 500 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Setenv("SAMPLE_INTERVAL", tc.interval)
		if got := New(ModeMonitor).CPUWindow(); got != tc.want {
			t.Fatalf("SAMPLE_INTERVAL=%s: cpu window = %v, want %v", tc.interval, got, tc.want)
		}
	}
}
