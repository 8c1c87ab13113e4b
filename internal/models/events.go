package models

// Outbound event types sent to subscribers.
const (
	EventRealtimeAlert = "realtime_alert"
	EventCurrentAlerts = "current_alerts"
	EventCurrentConfig = "current_config"
	EventConfigAck     = "config_ack"
	EventAlertHistory  = "alert_history"
	EventClearAck      = "clear_ack"
	EventError         = "error"
)

// Event is the closed set of messages delivered to subscribers. Build values
// with the New* constructors so the type tag always matches the payload.
type Event interface {
	EventType() string
	isEvent()
}

type RealtimeAlert struct {
	Type string `json:"type"`
	Data Alert  `json:"data"`
}

type CurrentAlerts struct {
	Type string  `json:"type"`
	Data []Alert `json:"data"`
}

type CurrentConfig struct {
	Type string             `json:"type"`
	Data MonitoredAppConfig `json:"data"`
}

type ConfigAck struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AlertHistory struct {
	Type string  `json:"type"`
	Data []Alert `json:"data"`
}

type ClearAck struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewRealtimeAlert(a Alert) RealtimeAlert {
	return RealtimeAlert{Type: EventRealtimeAlert, Data: a}
}

func NewCurrentAlerts(alerts []Alert) CurrentAlerts {
	return CurrentAlerts{Type: EventCurrentAlerts, Data: nonNil(alerts)}
}

func NewCurrentConfig(cfg MonitoredAppConfig) CurrentConfig {
	return CurrentConfig{Type: EventCurrentConfig, Data: cfg.Clone()}
}

func NewConfigAck(success bool, message string) ConfigAck {
	return ConfigAck{Type: EventConfigAck, Success: success, Message: message}
}

func NewAlertHistory(alerts []Alert) AlertHistory {
	return AlertHistory{Type: EventAlertHistory, Data: nonNil(alerts)}
}

func NewClearAck(message string) ClearAck {
	return ClearAck{Type: EventClearAck, Message: message}
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

func (RealtimeAlert) EventType() string { return EventRealtimeAlert }
func (CurrentAlerts) EventType() string { return EventCurrentAlerts }
func (CurrentConfig) EventType() string { return EventCurrentConfig }
func (ConfigAck) EventType() string     { return EventConfigAck }
func (AlertHistory) EventType() string  { return EventAlertHistory }
func (ClearAck) EventType() string      { return EventClearAck }
func (ErrorEvent) EventType() string    { return EventError }

func (RealtimeAlert) isEvent() {}
func (CurrentAlerts) isEvent() {}
func (CurrentConfig) isEvent() {}
func (ConfigAck) isEvent()     {}
func (AlertHistory) isEvent()  {}
func (ClearAck) isEvent()      {}
func (ErrorEvent) isEvent()    {}

func nonNil(alerts []Alert) []Alert {
	if alerts == nil {
		return []Alert{}
	}
	return alerts
}
