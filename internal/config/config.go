package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeMonitor Mode = "monitor"
	ModeAgent   Mode = "agent"
)

// Config holds process configuration. Fields are unexported to prevent modification.
type Config struct {
	mode               Mode
	listenAddr         string
	serverName         string
	sampleInterval     time.Duration
	cpuThreshold       float64
	ramThreshold       float64
	diskThreshold      float64
	tempThreshold      float64
	hysteresis         float64
	alertDiskMount     string
	appConfigPath      string
	internalToken      string
	collectorURL       string
	historyLimit       int
	processCacheTTL    time.Duration
	topProcesses       int
	logFile            string
	logLevel           string
	appLogDir          string
	localSampling      bool
	ginMode            string
	serviceName        string
	serviceDisplayName string
	serviceDescription string
}

func New(mode Mode) *Config {
	_ = godotenv.Load() // ignore error if .env not found

	defaultInterval := 2
	defaultLogFile := "hostwatch.log"
	defaultServiceName := "HostwatchMonitor"
	defaultDisplayName := "Hostwatch Monitor"
	if mode == ModeAgent {
		defaultInterval = 10
		defaultLogFile = "hostwatch-agent.log"
		defaultServiceName = "HostwatchAgent"
		defaultDisplayName = "Hostwatch Agent"
	}

	return &Config{
		mode:               mode,
		listenAddr:         getEnv("MONITOR_ADDR", ":8000"),
		serverName:         getEnv("SERVER_NAME", hostname()),
		sampleInterval:     time.Duration(getEnvInt("SAMPLE_INTERVAL", defaultInterval)) * time.Second,
		cpuThreshold:       getEnvFloat("CPU_THRESHOLD", 90),
		ramThreshold:       getEnvFloat("RAM_THRESHOLD", 90),
		diskThreshold:      getEnvFloat("DISK_THRESHOLD", 90),
		tempThreshold:      getEnvFloat("TEMP_THRESHOLD", 85),
		hysteresis:         getEnvFloat("HYSTERESIS", 5),
		alertDiskMount:     getEnv("ALERT_DISK_MOUNT", "/"),
		appConfigPath:      getEnv("CONFIG_PATH", "monitored_config.json"),
		internalToken:      os.Getenv("INTERNAL_TOKEN"),
		collectorURL:       getEnv("COLLECTOR_URL", "http://127.0.0.1:8000"),
		historyLimit:       getEnvInt("HISTORY_LIMIT", 1000),
		processCacheTTL:    time.Duration(getEnvInt("PROCESS_CACHE_TTL", 5)) * time.Second,
		topProcesses:       getEnvInt("TOP_PROCESSES", 20),
		logFile:            getEnv("LOG_FILE", defaultLogFile),
		logLevel:           getEnv("LOG_LEVEL", "info"),
		appLogDir:          getEnv("APP_LOG_DIR", "/var/log"),
		localSampling:      getEnvBool("LOCAL_SAMPLING", true),
		ginMode:            getEnv("GIN_MODE", "release"),
		serviceName:        getEnv("SERVICE_NAME", defaultServiceName),
		serviceDisplayName: getEnv("SERVICE_DISPLAY_NAME", defaultDisplayName),
		serviceDescription: getEnv("SERVICE_DESCRIPTION", "Host resource and application liveness monitor with realtime alerting"),
	}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back for unparsable values and for negatives.
func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// Getter methods (immutable from outside)

func (c *Config) Mode() Mode {
	return c.mode
}

func (c *Config) ListenAddr() string {
	return c.listenAddr
}

func (c *Config) ServerName() string {
	return c.serverName
}

// SampleInterval is never zero; a zero SAMPLE_INTERVAL falls back to one second.
func (c *Config) SampleInterval() time.Duration {
	if c.sampleInterval <= 0 {
		return time.Second
	}
	return c.sampleInterval
}

// CPUWindow is the private CPU sampling window for alert evaluation: half the
// sample interval, capped at one second.
func (c *Config) CPUWindow() time.Duration {
	return min(c.SampleInterval()/2, time.Second)
}

func (c *Config) CPUThreshold() float64 {
	return c.cpuThreshold
}

func (c *Config) RAMThreshold() float64 {
	return c.ramThreshold
}

func (c *Config) DiskThreshold() float64 {
	return c.diskThreshold
}

func (c *Config) TempThreshold() float64 {
	return c.tempThreshold
}

func (c *Config) Hysteresis() float64 {
	return c.hysteresis
}

func (c *Config) AlertDiskMount() string {
	return c.alertDiskMount
}

func (c *Config) AppConfigPath() string {
	return c.appConfigPath
}

func (c *Config) InternalToken() string {
	return c.internalToken
}

func (c *Config) CollectorURL() string {
	return c.collectorURL
}

func (c *Config) HistoryLimit() int {
	return c.historyLimit
}

func (c *Config) ProcessCacheTTL() time.Duration {
	return c.processCacheTTL
}

func (c *Config) TopProcesses() int {
	if c.topProcesses <= 0 {
		return 20
	}
	return c.topProcesses
}

func (c *Config) LogFile() string {
	return c.logFile
}

func (c *Config) LogLevel() string {
	return c.logLevel
}

func (c *Config) AppLogDir() string {
	return c.appLogDir
}

func (c *Config) LocalSampling() bool {
	return c.localSampling
}

// GinMode is one of debug, release or test; anything else means release.
func (c *Config) GinMode() string {
	switch c.ginMode {
	case "debug", "release", "test":
		return c.ginMode
	}
	return "release"
}

func (c *Config) ServiceName() string {
	return c.serviceName
}

func (c *Config) ServiceDisplayName() string {
	return c.serviceDisplayName
}

func (c *Config) ServiceDescription() string {
	return c.serviceDescription
}
