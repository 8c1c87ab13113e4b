package main

import (
	"os"

	"github.com/The-Promised-Neverland/hostwatch/internal/alerts"
	"github.com/The-Promised-Neverland/hostwatch/internal/api/handlers"
	"github.com/The-Promised-Neverland/hostwatch/internal/api/routers"
	"github.com/The-Promised-Neverland/hostwatch/internal/appconfig"
	"github.com/The-Promised-Neverland/hostwatch/internal/config"
	"github.com/The-Promised-Neverland/hostwatch/internal/daemon"
	"github.com/The-Promised-Neverland/hostwatch/internal/logs"
	"github.com/The-Promised-Neverland/hostwatch/internal/metrics"
	"github.com/The-Promised-Neverland/hostwatch/internal/sampler"
	"github.com/The-Promised-Neverland/hostwatch/internal/service"
	"github.com/The-Promised-Neverland/hostwatch/internal/ws"
	"github.com/The-Promised-Neverland/hostwatch/pkg/logger"
	"github.com/The-Promised-Neverland/hostwatch/pkg/system"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.New(config.ModeMonitor)
	logger.Init(cfg.LogFile(), cfg.LogLevel())
	system.InitStartTime()
	gin.SetMode(cfg.GinMode())

	appCfg, err := appconfig.Open(cfg.AppConfigPath(), logger.Log)
	if err != nil {
		logger.Log.Error("❌ Failed to open monitored app config", "err", err)
		os.Exit(1)
	}

	source := metrics.NewHostSource()
	collectorOpts := metrics.CollectorOptions{
		CacheTTL:  cfg.ProcessCacheTTL(),
		TopN:      cfg.TopProcesses(),
		RootMount: cfg.AlertDiskMount(),
	}
	// The HTTP collector reads CPU since the previous request; the sampler
	// uses its own window so API traffic cannot shorten its measurement.
	collector := metrics.NewCollector(source, collectorOpts, logger.Log)
	samplerOpts := collectorOpts
	samplerOpts.CPUWindow = cfg.CPUWindow()
	samplerCollector := metrics.NewCollector(source, samplerOpts, logger.Log)

	svc := service.NewService(alerts.NewStore(cfg.HistoryLimit()), ws.NewHub(logger.Log), appCfg, logger.Log)

	evaluator := alerts.NewThresholdEvaluator(cfg.ServerName(), alerts.Thresholds{
		CPUPercent:  cfg.CPUThreshold(),
		RAMPercent:  cfg.RAMThreshold(),
		DiskPercent: cfg.DiskThreshold(),
		Temperature: cfg.TempThreshold(),
	}, cfg.Hysteresis(), cfg.AlertDiskMount())
	loop := sampler.NewLoop(samplerCollector, appCfg, evaluator, alerts.NewLivenessChecker(cfg.ServerName()), svc, cfg.SampleInterval(), logger.Log)

	handler := handlers.NewHandler(svc, collector, logs.NewTailer(cfg.AppLogDir()), cfg.ServerName())
	router := routers.NewRouter(handler, handlers.NewWebSocketHandler(svc), handlers.NewSSEHandler(svc), cfg.InternalToken())
	if cfg.InternalToken() == "" {
		logger.Log.Warn("INTERNAL_TOKEN not set, agent alert ingestion is disabled")
	}

	app := daemon.NewApplication(cfg, appCfg, loop, svc, router.SetupRouter())
	manager := daemon.NewDaemonManager(cfg, app)

	verb := ""
	if len(os.Args) > 1 {
		verb = os.Args[1]
	}
	if err := manager.Control(verb); err != nil {
		logger.Log.Error("❌ Command failed", "command", verb, "err", err)
		os.Exit(1)
	}
	if verb != "" && verb != "run" {
		logger.Log.Info("✅ Command completed", "command", verb)
	}
}
