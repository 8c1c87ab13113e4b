package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
)

const defaultCommandTimeout = 10 * time.Second

// ErrCommandTimeout is returned when a command outlives its deadline.
var ErrCommandTimeout = errors.New("command timed out")

// RunCommand runs a command with the default timeout (10s) and returns its
// combined stdout and stderr.
func RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	hideWindow(cmd)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start command %s: %w", name, err)
	}
	err := cmd.Wait()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.Log.Warn("⏱ Command timeout", "cmd", name, "args", args, "os", runtime.GOOS)
		return out.String(), ErrCommandTimeout
	}
	if err != nil {
		return out.String(), fmt.Errorf("command %s failed: %w", name, err)
	}
	return out.String(), nil
}
