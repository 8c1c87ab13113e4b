package logs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/The-Promised-Neverland/hostwatch/pkg/utils"
)

const TailLines = 50

const (
	TypeSystemd = "systemd"
	TypeDocker  = "docker"
	TypeCustom  = "custom"
)

var (
	ErrUnknownType   = errors.New("unknown application type")
	ErrInvalidApp    = errors.New("invalid application name")
	ErrLogNotFound   = errors.New("log file not found")
	ErrCommandFailed = errors.New("log command failed")
)

// Runner executes an external command and returns its output.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Result is the tail of one application's log.
type Result struct {
	App   string   `json:"app"`
	Type  string   `json:"type"`
	Lines []string `json:"lines"`
}

// Tailer reads recent log lines from journald, docker or a plain file under
// logDir.
type Tailer struct {
	logDir string
	run    Runner
}

func NewTailer(logDir string) *Tailer {
	return &Tailer{logDir: logDir, run: utils.RunCommand}
}

func (t *Tailer) Tail(ctx context.Context, app, appType string) (Result, error) {
	appType = strings.ToLower(strings.TrimSpace(appType))
	if !validAppName(app) {
		return Result{}, ErrInvalidApp
	}
	n := strconv.Itoa(TailLines)
	var (
		out string
		err error
	)
	switch appType {
	case TypeSystemd:
		out, err = t.run(ctx, "journalctl", "-u", app+".service", "-n", n, "--no-pager")
	case TypeDocker:
		out, err = t.run(ctx, "docker", "logs", "--tail", n, app)
	case TypeCustom:
		path, perr := t.customLogPath(app)
		if perr != nil {
			return Result{}, perr
		}
		out, err = t.run(ctx, "tail", "-n", n, path)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownType, appType)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	return Result{App: app, Type: appType, Lines: cleanLines(out)}, nil
}

// customLogPath resolves <logDir>/<app>, falling back to <logDir>/<app>.log.
func (t *Tailer) customLogPath(app string) (string, error) {
	for _, name := range []string{app, app + ".log"} {
		path := filepath.Join(t.logDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLogNotFound, filepath.Join(t.logDir, app))
}

func validAppName(app string) bool {
	if strings.TrimSpace(app) == "" || app != strings.TrimSpace(app) {
		return false
	}
	if strings.HasPrefix(app, "-") || strings.Contains(app, "..") {
		return false
	}
	return !strings.ContainsAny(app, `/\`)
}

func cleanLines(out string) []string {
	lines := make([]string, 0, TailLines)
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > TailLines {
		lines = lines[len(lines)-TailLines:]
	}
	return lines
}
