package system

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

var StartTime = time.Now()

func InitStartTime() {
	StartTime = time.Now()
}

// Uptime is the process uptime in whole seconds.
func Uptime() int64 {
	return int64(time.Since(StartTime) / time.Second)
}

// HostUptime is the time since the host booted in seconds, 0 when the
// platform does not report it.
func HostUptime(ctx context.Context) uint64 {
	up, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0
	}
	return up
}
