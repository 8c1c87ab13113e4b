package alerts

import (
	"fmt"
	"time"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

const DefaultHysteresis = 5.0

const (
	MetricCPU         = "cpu_percent"
	MetricRAM         = "ram_percent"
	MetricDisk        = "disk_percent"
	MetricTemperature = "temperature"
)

// Thresholds are numeric ceilings; a value strictly above one raises an alert.
type Thresholds struct {
	CPUPercent  float64
	RAMPercent  float64
	DiskPercent float64
	Temperature float64
}

// Transition applies the hysteresis rule to one metric. prior is the last
// emitted status, empty when nothing was emitted yet. It returns the status
// to emit and whether a transition happened.
func Transition(prior models.Status, value, threshold, hysteresis float64) (models.Status, bool) {
	if value > threshold {
		if prior != models.StatusAlert {
			return models.StatusAlert, true
		}
		return prior, false
	}
	if prior == models.StatusAlert && value < threshold-hysteresis {
		return models.StatusRecovery, true
	}
	return prior, false
}

type metricRule struct {
	alertType string
	metric    string
	label     string
}

var (
	cpuRule  = metricRule{models.AlertTypeCPU, MetricCPU, "CPU usage"}
	ramRule  = metricRule{models.AlertTypeRAM, MetricRAM, "RAM usage"}
	diskRule = metricRule{models.AlertTypeDisk, MetricDisk, "Disk usage"}
	tempRule = metricRule{models.AlertTypeTemperature, MetricTemperature, "Temperature"}
)

// ThresholdEvaluator turns snapshots into ALERT/RECOVERY transitions. It keeps
// the last emitted status per metric and is not safe for concurrent use; the
// sampling loop owns it.
type ThresholdEvaluator struct {
	serverName string
	thresholds Thresholds
	hysteresis float64
	diskMount  string
	last       map[string]models.Status
	now        func() time.Time
}

func NewThresholdEvaluator(serverName string, thresholds Thresholds, hysteresis float64, diskMount string) *ThresholdEvaluator {
	if diskMount == "" {
		diskMount = "/"
	}
	return &ThresholdEvaluator{
		serverName: serverName,
		thresholds: thresholds,
		hysteresis: hysteresis,
		diskMount:  diskMount,
		last:       make(map[string]models.Status),
		now:        time.Now,
	}
}

// Evaluate checks CPU, RAM, the canonical disk mount and, when a sensor
// reading exists, temperature. Alerts are returned in that order.
func (e *ThresholdEvaluator) Evaluate(snap models.MetricSnapshot) []models.Alert {
	var out []models.Alert
	at := e.now()
	out = e.check(out, cpuRule, snap.CPUPercent, e.thresholds.CPUPercent, at)
	out = e.check(out, ramRule, snap.RAM.Percent, e.thresholds.RAMPercent, at)
	if disk, ok := snap.Disk(e.diskMount); ok {
		out = e.check(out, diskRule, disk.Percent, e.thresholds.DiskPercent, at)
	}
	if snap.Temperature != nil {
		out = e.check(out, tempRule, *snap.Temperature, e.thresholds.Temperature, at)
	}
	return out
}

// LastStatus reports the last emitted status for an alert type.
func (e *ThresholdEvaluator) LastStatus(alertType string) (models.Status, bool) {
	s, ok := e.last[alertType]
	return s, ok
}

func (e *ThresholdEvaluator) check(out []models.Alert, rule metricRule, value, threshold float64, at time.Time) []models.Alert {
	next, changed := Transition(e.last[rule.alertType], value, threshold, e.hysteresis)
	if !changed {
		return out
	}
	e.last[rule.alertType] = next
	msg := fmt.Sprintf("%s is high: %.1f > %.1f", rule.label, value, threshold)
	if next == models.StatusRecovery {
		msg = fmt.Sprintf("%s back to normal: %.1f", rule.label, value)
	}
	return append(out, models.MetricAlert(e.serverName, rule.alertType, next, rule.metric, value, threshold, msg, at))
}
