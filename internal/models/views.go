package models

import "github.com/The-Promised-Neverland/hostwatch/pkg/utils"

type HealthCheck struct {
	Status      string `json:"status"`
	ServerName  string `json:"server_name"`
	Uptime      int64  `json:"uptime"`
	HostUptime  uint64 `json:"host_uptime"`
	Subscribers int    `json:"subscribers"`
}

type CPUView struct {
	Percent       float64   `json:"percent"`
	PerCPUPercent []float64 `json:"percpu_percent"`
	LoadAvg       LoadView  `json:"load_avg"`
}

type LoadView struct {
	OneMin     float64 `json:"onemin"`
	FiveMin    float64 `json:"fivemin"`
	FifteenMin float64 `json:"fifteenmin"`
}

type MemoryView struct {
	Total      string  `json:"total"`
	Used       string  `json:"used"`
	Available  string  `json:"available,omitempty"`
	Free       string  `json:"free"`
	Percent    float64 `json:"percent"`
	TotalBytes uint64  `json:"total_bytes"`
	UsedBytes  uint64  `json:"used_bytes"`
	FreeBytes  uint64  `json:"free_bytes"`
}

type DiskView struct {
	Mount      string  `json:"mount"`
	Total      string  `json:"total"`
	Used       string  `json:"used"`
	Free       string  `json:"free"`
	Percent    float64 `json:"percent"`
	TotalBytes uint64  `json:"total_bytes"`
	UsedBytes  uint64  `json:"used_bytes"`
	FreeBytes  uint64  `json:"free_bytes"`
}

type NetworkView struct {
	TotalDownload string `json:"total_download"`
	TotalUpload   string `json:"total_upload"`
	BytesRecv     uint64 `json:"bytes_recv"`
	BytesSent     uint64 `json:"bytes_sent"`
}

type ProcessView struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	User       string  `json:"user"`
	Memory     string  `json:"memory"`
	MemoryRaw  uint64  `json:"memory_raw"`
	CPUPercent float64 `json:"cpu_percent"`
}

// ResourcesView is the human-readable rendering of a MetricSnapshot served by
// the resources endpoint.
type ResourcesView struct {
	CPU                CPUView              `json:"cpu"`
	RAM                MemoryView           `json:"ram"`
	Swap               *MemoryView          `json:"swap"`
	Disks              []DiskView           `json:"disks"`
	Network            NetworkView          `json:"network"`
	Temperature        *float64             `json:"temperature"`
	Sensors            []TemperatureReading `json:"sensors"`
	TopCPUProcesses    []ProcessView        `json:"top_cpu_processes"`
	TopMemoryProcesses []ProcessView        `json:"top_memory_processes"`
	CapturedAt         string               `json:"captured_at"`
}

func NewResourcesView(s MetricSnapshot) ResourcesView {
	v := ResourcesView{
		CPU: CPUView{
			Percent:       s.CPUPercent,
			PerCPUPercent: s.PerCore,
			LoadAvg:       LoadView{OneMin: s.LoadAvg.One, FiveMin: s.LoadAvg.Five, FifteenMin: s.LoadAvg.Fifteen},
		},
		RAM:         memoryView(s.RAM),
		Disks:       make([]DiskView, 0, len(s.Disks)),
		Temperature: s.Temperature,
		Sensors:     s.Sensors,
		Network: NetworkView{
			TotalDownload: utils.FormatBytes(s.Network.BytesRecv),
			TotalUpload:   utils.FormatBytes(s.Network.BytesSent),
			BytesRecv:     s.Network.BytesRecv,
			BytesSent:     s.Network.BytesSent,
		},
		TopCPUProcesses:    processViews(s.TopCPU),
		TopMemoryProcesses: processViews(s.TopMemory),
		CapturedAt:         FormatTimestamp(s.CapturedAt),
	}
	if v.CPU.PerCPUPercent == nil {
		v.CPU.PerCPUPercent = []float64{}
	}
	if v.Sensors == nil {
		v.Sensors = []TemperatureReading{}
	}
	if s.Swap != nil {
		swap := memoryView(*s.Swap)
		swap.Available = ""
		v.Swap = &swap
	}
	for _, d := range s.Disks {
		v.Disks = append(v.Disks, DiskView{
			Mount:      d.Mount,
			Total:      utils.FormatBytes(d.Total),
			Used:       utils.FormatBytes(d.Used),
			Free:       utils.FormatBytes(d.Free),
			Percent:    d.Percent,
			TotalBytes: d.Total,
			UsedBytes:  d.Used,
			FreeBytes:  d.Free,
		})
	}
	return v
}

func memoryView(m Memory) MemoryView {
	return MemoryView{
		Total:      utils.FormatBytes(m.Total),
		Used:       utils.FormatBytes(m.Used),
		Available:  utils.FormatBytes(m.Available),
		Free:       utils.FormatBytes(m.Free),
		Percent:    m.Percent,
		TotalBytes: m.Total,
		UsedBytes:  m.Used,
		FreeBytes:  m.Free,
	}
}

func processViews(procs []ProcessInfo) []ProcessView {
	out := make([]ProcessView, 0, len(procs))
	for _, p := range procs {
		out = append(out, ProcessView{
			PID:        p.PID,
			Name:       p.Name,
			User:       p.User,
			Memory:     utils.FormatBytes(p.MemoryBytes),
			MemoryRaw:  p.MemoryBytes,
			CPUPercent: p.CPUPercent,
		})
	}
	return out
}
