package alerts

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

type appState string

const (
	appUp   appState = "UP"
	appDown appState = "DOWN"
)

// LivenessChecker reports monitored applications going down or coming back.
// Apps start implicitly UP. Not safe for concurrent use.
type LivenessChecker struct {
	serverName string
	last       map[string]appState
	now        func() time.Time
}

func NewLivenessChecker(serverName string) *LivenessChecker {
	return &LivenessChecker{
		serverName: serverName,
		last:       make(map[string]appState),
		now:        time.Now,
	}
}

// Check compares the configured apps against running process names. An app
// is running when its name is a case-sensitive substring of any process name.
// Disabled apps are skipped and keep their last state. An app removed from
// the config while down is resolved with a RECOVERY and forgotten.
func (l *LivenessChecker) Check(processNames []string, cfg models.MonitoredAppConfig) []models.Alert {
	at := l.now()
	out := l.forgetRemoved(cfg, at)
	for _, app := range cfg.ActiveApps() {
		running := isRunning(app, processNames)
		prev, seen := l.last[app]
		if !seen {
			prev = appUp
		}
		switch {
		case running && prev == appDown:
			l.last[app] = appUp
			out = append(out, models.AppAlert(l.serverName, app, models.StatusRecovery, fmt.Sprintf("%s is running again", app), at))
		case !running && prev != appDown:
			l.last[app] = appDown
			out = append(out, models.AppAlert(l.serverName, app, models.StatusAlert, fmt.Sprintf("%s is not running", app), at))
		}
	}
	return out
}

func (l *LivenessChecker) forgetRemoved(cfg models.MonitoredAppConfig, at time.Time) []models.Alert {
	var out []models.Alert
	for _, app := range slices.Sorted(maps.Keys(l.last)) {
		if cfg.IsMonitored(app) {
			continue
		}
		if l.last[app] == appDown {
			out = append(out, models.AppAlert(l.serverName, app, models.StatusRecovery, fmt.Sprintf("%s is no longer monitored", app), at))
		}
		delete(l.last, app)
	}
	return out
}

// IsDown reports whether app was last observed down.
func (l *LivenessChecker) IsDown(app string) bool {
	return l.last[app] == appDown
}

func isRunning(app string, processNames []string) bool {
	if app == "" {
		return false
	}
	for _, name := range processNames {
		if strings.Contains(name, app) {
			return true
		}
	}
	return false
}
