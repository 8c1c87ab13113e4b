package metrics

import (
	"context"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

// Source is the raw metric provider. Every method is an independent source and
// may fail on its own; callers degrade per field.
//
// A zero CPU interval reports usage since the previous zero-interval call
// anywhere in the process. A positive interval samples its own window.
type Source interface {
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	PerCorePercent(ctx context.Context, interval time.Duration) ([]float64, error)
	LoadAvg(ctx context.Context) (models.LoadAvg, error)
	VirtualMemory(ctx context.Context) (models.Memory, error)
	SwapMemory(ctx context.Context) (models.Memory, error)
	Disks(ctx context.Context) ([]models.DiskUsage, error)
	DiskUsage(ctx context.Context, mount string) (models.DiskUsage, error)
	Network(ctx context.Context) (models.NetworkCounters, error)
	Temperatures(ctx context.Context) ([]models.TemperatureReading, error)
	Processes(ctx context.Context) ([]models.ProcessInfo, error)
	ProcessNames(ctx context.Context) ([]string, error)
}
