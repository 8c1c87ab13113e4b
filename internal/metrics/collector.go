package metrics

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

const (
	DefaultProcessCacheTTL = 5 * time.Second
	DefaultTopProcesses    = 20
)

// Collector assembles MetricSnapshots from a Source. A failing source never
// fails the snapshot; its field is left at the zero value or nil.
type Collector struct {
	source    Source
	cache     *ProcessCache
	cacheTTL  time.Duration
	topN      int
	rootMount string
	cpuWindow time.Duration
	log       *slog.Logger
	now       func() time.Time
}

type CollectorOptions struct {
	CacheTTL  time.Duration
	TopN      int
	RootMount string
	// CPUWindow > 0 makes every snapshot block for that window while CPU
	// usage is sampled. Zero reads usage since the previous snapshot.
	CPUWindow time.Duration
}

func NewCollector(source Source, opts CollectorOptions, log *slog.Logger) *Collector {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultProcessCacheTTL
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopProcesses
	}
	if opts.RootMount == "" {
		opts.RootMount = "/"
	}
	return &Collector{
		source:    source,
		cache:     NewProcessCache(),
		cacheTTL:  opts.CacheTTL,
		topN:      opts.TopN,
		rootMount: opts.RootMount,
		cpuWindow: opts.CPUWindow,
		log:       log,
		now:       time.Now,
	}
}

func (c *Collector) Snapshot(ctx context.Context) models.MetricSnapshot {
	now := c.now()
	snap := models.MetricSnapshot{CapturedAt: now.UTC()}

	c.cpu(ctx, &snap)
	if v, err := c.source.LoadAvg(ctx); err != nil {
		c.sourceFailed("load_avg", err)
	} else {
		snap.LoadAvg = v
	}
	if v, err := c.source.VirtualMemory(ctx); err != nil {
		c.sourceFailed("ram", err)
	} else {
		snap.RAM = v
	}
	if v, err := c.source.SwapMemory(ctx); err != nil {
		c.sourceFailed("swap", err)
	} else if v.Total > 0 {
		snap.Swap = &v
	}
	snap.Disks = c.disks(ctx)
	if v, err := c.source.Network(ctx); err != nil {
		c.sourceFailed("network", err)
	} else {
		snap.Network = v
	}
	if readings, err := c.source.Temperatures(ctx); err != nil {
		c.sourceFailed("temperature", err)
	} else {
		snap.Sensors = readings
		snap.Temperature = primaryTemperature(readings)
	}

	snap.TopCPU, snap.TopMemory = c.cache.GetOrCompute(now, c.cacheTTL, func() ([]models.ProcessInfo, []models.ProcessInfo) {
		procs, err := c.source.Processes(ctx)
		if err != nil {
			c.sourceFailed("processes", err)
		}
		return RankProcesses(procs, c.topN)
	})
	return snap
}

// cpu fills total and per-core usage. Both windows run concurrently so a
// windowed snapshot blocks for one window, not two.
func (c *Collector) cpu(ctx context.Context, snap *models.MetricSnapshot) {
	var (
		wg       sync.WaitGroup
		total    float64
		perCore  []float64
		totalErr error
		coreErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, totalErr = c.source.CPUPercent(ctx, c.cpuWindow)
	}()
	go func() {
		defer wg.Done()
		perCore, coreErr = c.source.PerCorePercent(ctx, c.cpuWindow)
	}()
	wg.Wait()

	if totalErr != nil {
		c.sourceFailed("cpu", totalErr)
	} else {
		snap.CPUPercent = total
	}
	if coreErr != nil {
		c.sourceFailed("per_core", coreErr)
	} else {
		snap.PerCore = perCore
	}
}

// ProcessNames returns the names of running processes for liveness checks.
func (c *Collector) ProcessNames(ctx context.Context) ([]string, error) {
	return c.source.ProcessNames(ctx)
}

// disks returns all readable mounts with the root mount first. The root mount
// is read directly when partition listing omits it.
func (c *Collector) disks(ctx context.Context) []models.DiskUsage {
	all, err := c.source.Disks(ctx)
	if err != nil {
		c.sourceFailed("disks", err)
	}
	out := make([]models.DiskUsage, 0, len(all)+1)
	var rest []models.DiskUsage
	for _, d := range all {
		if d.Mount == c.rootMount {
			out = append(out, d)
			continue
		}
		rest = append(rest, d)
	}
	if len(out) == 0 {
		root, err := c.source.DiskUsage(ctx, c.rootMount)
		if err != nil {
			c.sourceFailed("disk_root", err)
		} else {
			out = append(out, root)
		}
	}
	return append(out, rest...)
}

func (c *Collector) sourceFailed(source string, err error) {
	c.log.Debug("metric source unavailable", "source", source, "err", err)
}

// primaryTemperature picks the CPU package reading: coretemp first, then any
// cpu/package sensor, then the first reading.
func primaryTemperature(readings []models.TemperatureReading) *float64 {
	if len(readings) == 0 {
		return nil
	}
	pick := func(match func(string) bool) *float64 {
		for _, r := range readings {
			if match(strings.ToLower(r.Sensor)) {
				v := r.Celsius
				return &v
			}
		}
		return nil
	}
	if v := pick(func(s string) bool { return strings.HasPrefix(s, "coretemp") }); v != nil {
		return v
	}
	if v := pick(func(s string) bool { return strings.Contains(s, "cpu") || strings.Contains(s, "package") }); v != nil {
		return v
	}
	v := readings[0].Celsius
	return &v
}
