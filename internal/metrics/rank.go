package metrics

import (
	"cmp"
	"slices"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

// RankProcesses returns the top limit processes by CPU and by resident memory,
// descending. Ties keep enumeration order.
func RankProcesses(procs []models.ProcessInfo, limit int) (topCPU, topMemory []models.ProcessInfo) {
	topCPU = slices.Clone(procs)
	slices.SortStableFunc(topCPU, func(a, b models.ProcessInfo) int {
		return cmp.Compare(b.CPUPercent, a.CPUPercent)
	})
	topMemory = slices.Clone(procs)
	slices.SortStableFunc(topMemory, func(a, b models.ProcessInfo) int {
		return cmp.Compare(b.MemoryBytes, a.MemoryBytes)
	})
	return truncate(topCPU, limit), truncate(topMemory, limit)
}

func truncate(procs []models.ProcessInfo, limit int) []models.ProcessInfo {
	if limit >= 0 && len(procs) > limit {
		return procs[:limit]
	}
	return procs
}
