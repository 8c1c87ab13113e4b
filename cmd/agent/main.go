package main

import (
	"os"

	"github.com/The-Promised-Neverland/hostwatch/internal/alerts"
	"github.com/The-Promised-Neverland/hostwatch/internal/appconfig"
	"github.com/The-Promised-Neverland/hostwatch/internal/config"
	"github.com/The-Promised-Neverland/hostwatch/internal/daemon"
	"github.com/The-Promised-Neverland/hostwatch/internal/forwarder"
	"github.com/The-Promised-Neverland/hostwatch/internal/metrics"
	"github.com/The-Promised-Neverland/hostwatch/internal/sampler"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
	"github.com/The-Promised-Neverland/hostwatch/pkg/system"
)

func main() {
	cfg := config.New(config.ModeAgent)
	logger.Init(cfg.LogFile(), cfg.LogLevel())
	system.InitStartTime()

	appCfg, err := appconfig.Open(cfg.AppConfigPath(), logger.Log)
	if err != nil {
		logger.Log.Error("❌ Failed to open monitored app config", "err", err)
		os.Exit(1)
	}
	if cfg.InternalToken() == "" {
		logger.Log.Warn("INTERNAL_TOKEN not set, the collector will reject forwarded alerts")
	}

	collector := metrics.NewCollector(metrics.NewHostSource(), metrics.CollectorOptions{
		CacheTTL:  cfg.ProcessCacheTTL(),
		TopN:      cfg.TopProcesses(),
		RootMount: cfg.AlertDiskMount(),
		CPUWindow: cfg.CPUWindow(),
	}, logger.Log)
	evaluator := alerts.NewThresholdEvaluator(cfg.ServerName(), alerts.Thresholds{
		CPUPercent:  cfg.CPUThreshold(),
		RAMPercent:  cfg.RAMThreshold(),
		DiskPercent: cfg.DiskThreshold(),
		Temperature: cfg.TempThreshold(),
	}, cfg.Hysteresis(), cfg.AlertDiskMount())
	client := forwarder.NewClient(cfg.CollectorURL(), cfg.InternalToken(), logger.Log)
	loop := sampler.NewLoop(collector, appCfg, evaluator, alerts.NewLivenessChecker(cfg.ServerName()), client, cfg.SampleInterval(), logger.Log)

	app := daemon.NewApplication(cfg, appCfg, loop, nil, nil)
	manager := daemon.NewDaemonManager(cfg, app)

	verb := ""
	if len(os.Args) > 1 {
		verb = os.Args[1]
	}
	logger.Log.Info("Agent starting", "server", cfg.ServerName(), "collector", cfg.CollectorURL(), "interval", cfg.SampleInterval())
	if err := manager.Control(verb); err != nil {
		logger.Log.Error("❌ Command failed", "command", verb, "err", err)
		os.Exit(1)
	}
}
