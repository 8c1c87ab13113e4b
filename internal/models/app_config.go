package models

import "slices"

// MonitoredAppConfig is the persisted list of watched application names.
type MonitoredAppConfig struct {
	MonitoredApps []string `json:"monitored_apps"`
	DisabledApps  []string `json:"disabled_apps"`
}

func (c MonitoredAppConfig) Clone() MonitoredAppConfig {
	out := MonitoredAppConfig{
		MonitoredApps: slices.Clone(c.MonitoredApps),
		DisabledApps:  slices.Clone(c.DisabledApps),
	}
	if out.MonitoredApps == nil {
		out.MonitoredApps = []string{}
	}
	if out.DisabledApps == nil {
		out.DisabledApps = []string{}
	}
	return out
}

func (c MonitoredAppConfig) IsMonitored(app string) bool {
	return slices.Contains(c.MonitoredApps, app)
}

func (c MonitoredAppConfig) IsDisabled(app string) bool {
	return slices.Contains(c.DisabledApps, app)
}

// ActiveApps returns monitored apps that are not disabled, in configured order.
func (c MonitoredAppConfig) ActiveApps() []string {
	out := make([]string, 0, len(c.MonitoredApps))
	for _, app := range c.MonitoredApps {
		if !c.IsDisabled(app) {
			out = append(out, app)
		}
	}
	return out
}
