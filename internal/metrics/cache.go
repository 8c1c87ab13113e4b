package metrics

import (
	"slices"
	"sync"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

// ComputeFunc produces the ranked top-CPU and top-memory process lists.
type ComputeFunc func() (topCPU, topMemory []models.ProcessInfo)

type processEntry struct {
	topCPU     []models.ProcessInfo
	topMemory  []models.ProcessInfo
	capturedAt time.Time
}

// ProcessCache memoizes process enumeration. Compute runs under the lock so
// concurrent callers in an expired window enumerate once.
type ProcessCache struct {
	mu    sync.Mutex
	entry *processEntry
}

func NewProcessCache() *ProcessCache {
	return &ProcessCache{}
}

// GetOrCompute returns the cached pair while now-capturedAt < ttl, otherwise
// calls compute and stores its result stamped with now.
func (c *ProcessCache) GetOrCompute(now time.Time, ttl time.Duration, compute ComputeFunc) ([]models.ProcessInfo, []models.ProcessInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry != nil && now.Sub(c.entry.capturedAt) < ttl {
		return slices.Clone(c.entry.topCPU), slices.Clone(c.entry.topMemory)
	}
	topCPU, topMemory := compute()
	c.entry = &processEntry{topCPU: topCPU, topMemory: topMemory, capturedAt: now}
	return slices.Clone(topCPU), slices.Clone(topMemory)
}
