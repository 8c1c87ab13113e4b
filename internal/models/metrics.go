package models

import "time"

type LoadAvg struct {
	One     float64 `json:"one"`
	Five    float64 `json:"five"`
	Fifteen float64 `json:"fifteen"`
}

type Memory struct {
	Total     uint64  `json:"total"`
	Used      uint64  `json:"used"`
	Available uint64  `json:"available"`
	Free      uint64  `json:"free"`
	Percent   float64 `json:"percent"`
}

type DiskUsage struct {
	Mount   string  `json:"mount"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

type NetworkCounters struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

type TemperatureReading struct {
	Sensor  string  `json:"sensor"`
	Celsius float64 `json:"celsius"`
}

type ProcessInfo struct {
	PID         int32   `json:"pid"`
	Name        string  `json:"name"`
	User        string  `json:"user"`
	MemoryBytes uint64  `json:"memory_bytes"`
	CPUPercent  float64 `json:"cpu_percent"`
}

// MetricSnapshot is a point-in-time reading of the host. Swap and Temperature
// are nil when the host has no swap or no usable sensor.
type MetricSnapshot struct {
	CPUPercent  float64              `json:"cpu_percent"`
	PerCore     []float64            `json:"per_core"`
	LoadAvg     LoadAvg              `json:"load_avg"`
	RAM         Memory               `json:"ram"`
	Swap        *Memory              `json:"swap"`
	Disks       []DiskUsage          `json:"disks"`
	Network     NetworkCounters      `json:"network"`
	Temperature *float64             `json:"temperature"`
	Sensors     []TemperatureReading `json:"sensors,omitempty"`
	TopCPU      []ProcessInfo        `json:"top_cpu_processes"`
	TopMemory   []ProcessInfo        `json:"top_memory_processes"`
	CapturedAt  time.Time            `json:"captured_at"`
}

// Disk returns the usage entry for mount.
func (s MetricSnapshot) Disk(mount string) (DiskUsage, bool) {
	for _, d := range s.Disks {
		if d.Mount == mount {
			return d, true
		}
	}
	return DiskUsage{}, false
}
