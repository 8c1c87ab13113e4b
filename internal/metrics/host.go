package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

var (
	ErrNoCPUData     = errors.New("no cpu data")
	ErrNoNetworkData = errors.New("no network counters")
)

// HostSource reads the local machine through gopsutil.
type HostSource struct{}

func NewHostSource() *HostSource {
	return &HostSource{}
}

// CPUPercent blocks for interval when it is positive. With interval 0 the
// value is measured since the previous zero-interval call, which gopsutil
// tracks globally.
func (s *HostSource) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, ErrNoCPUData
	}
	return pct[0], nil
}

func (s *HostSource) PerCorePercent(ctx context.Context, interval time.Duration) ([]float64, error) {
	return cpu.PercentWithContext(ctx, interval, true)
}

func (s *HostSource) LoadAvg(ctx context.Context) (models.LoadAvg, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return models.LoadAvg{}, err
	}
	return models.LoadAvg{One: avg.Load1, Five: avg.Load5, Fifteen: avg.Load15}, nil
}

func (s *HostSource) VirtualMemory(ctx context.Context) (models.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return models.Memory{}, err
	}
	return models.Memory{
		Total:     vm.Total,
		Used:      vm.Used,
		Available: vm.Available,
		Free:      vm.Free,
		Percent:   vm.UsedPercent,
	}, nil
}

func (s *HostSource) SwapMemory(ctx context.Context) (models.Memory, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return models.Memory{}, err
	}
	return models.Memory{
		Total:   sw.Total,
		Used:    sw.Used,
		Free:    sw.Free,
		Percent: sw.UsedPercent,
	}, nil
}

// Disks lists physical partitions; mounts that cannot be read are skipped.
func (s *HostSource) Disks(ctx context.Context) ([]models.DiskUsage, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(parts))
	out := make([]models.DiskUsage, 0, len(parts))
	for _, p := range parts {
		if _, dup := seen[p.Mountpoint]; dup {
			continue
		}
		seen[p.Mountpoint] = struct{}{}
		usage, err := s.DiskUsage(ctx, p.Mountpoint)
		if err != nil {
			continue
		}
		out = append(out, usage)
	}
	return out, nil
}

func (s *HostSource) DiskUsage(ctx context.Context, mount string) (models.DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, mount)
	if err != nil {
		return models.DiskUsage{}, err
	}
	return models.DiskUsage{
		Mount:   mount,
		Total:   u.Total,
		Used:    u.Used,
		Free:    u.Free,
		Percent: u.UsedPercent,
	}, nil
}

func (s *HostSource) Network(ctx context.Context) (models.NetworkCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return models.NetworkCounters{}, err
	}
	if len(counters) == 0 {
		return models.NetworkCounters{}, ErrNoNetworkData
	}
	return models.NetworkCounters{
		BytesSent: counters[0].BytesSent,
		BytesRecv: counters[0].BytesRecv,
	}, nil
}

// Temperatures returns every sensor reading. gopsutil reports partial reads
// as warnings alongside data; readings win over the warning.
func (s *HostSource) Temperatures(ctx context.Context) ([]models.TemperatureReading, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if len(temps) == 0 && err != nil {
		return nil, err
	}
	out := make([]models.TemperatureReading, 0, len(temps))
	for _, t := range temps {
		out = append(out, models.TemperatureReading{Sensor: t.SensorKey, Celsius: t.Temperature})
	}
	return out, nil
}

// Processes enumerates running processes. A process that vanished before its
// name could be read is skipped; other unreadable attributes are zeroed.
func (s *HostSource) Processes(ctx context.Context) ([]models.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		info := models.ProcessInfo{PID: p.Pid, Name: name}
		if user, err := p.UsernameWithContext(ctx); err == nil {
			info.User = user
		}
		if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
			info.MemoryBytes = memInfo.RSS
		}
		if pct, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = pct
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *HostSource) ProcessNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
