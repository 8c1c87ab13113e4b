package models

import "time"

type Status string

const (
	StatusAlert    Status = "ALERT"
	StatusRecovery Status = "RECOVERY"
)

func (s Status) Valid() bool {
	return s == StatusAlert || s == StatusRecovery
}

const (
	AlertTypeCPU         = "CPU"
	AlertTypeRAM         = "RAM"
	AlertTypeDisk        = "DISK"
	AlertTypeTemperature = "TEMPERATURE"
	appAlertPrefix       = "APP_"
)

// AppAlertType returns the alert type for a monitored application.
func AppAlertType(app string) string {
	return appAlertPrefix + app
}

// AlertKey identifies one monitored condition.
type AlertKey struct {
	ServerName string
	AlertType  string
}

// Alert is a single state transition. Values are never mutated after creation;
// optional fields serialise as null when absent.
type Alert struct {
	ServerName        string   `json:"server_name"`
	AlertType         string   `json:"alert_type"`
	Status            Status   `json:"status"`
	Metric            *string  `json:"metric"`
	Value             *float64 `json:"value"`
	Threshold         *float64 `json:"threshold"`
	Message           string   `json:"message"`
	Timestamp         string   `json:"timestamp"`
	ReceivedTimestamp string   `json:"received_timestamp,omitempty"`
}

func (a Alert) Key() AlertKey {
	return AlertKey{ServerName: a.ServerName, AlertType: a.AlertType}
}

// FormatTimestamp renders t as UTC ISO-8601.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// MetricAlert builds a threshold alert carrying metric, value and threshold.
func MetricAlert(server, alertType string, status Status, metric string, value, threshold float64, message string, at time.Time) Alert {
	return Alert{
		ServerName: server,
		AlertType:  alertType,
		Status:     status,
		Metric:     &metric,
		Value:      &value,
		Threshold:  &threshold,
		Message:    message,
		Timestamp:  FormatTimestamp(at),
	}
}

// AppAlert builds a liveness alert; it has no metric fields.
func AppAlert(server, app string, status Status, message string, at time.Time) Alert {
	return Alert{
		ServerName: server,
		AlertType:  AppAlertType(app),
		Status:     status,
		Message:    message,
		Timestamp:  FormatTimestamp(at),
	}
}
