package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

var (
	ErrInvalidApp       = errors.New("invalid application name")
	ErrAlreadyMonitored = errors.New("application already monitored")
	ErrNotMonitored     = errors.New("application not monitored")
)

// Store is the persisted list of monitored applications. Every mutation is
// written to disk atomically before it becomes visible.
type Store struct {
	path string
	mu   sync.RWMutex
	cfg  models.MonitoredAppConfig
	log  *slog.Logger
}

// Open loads the config at path, writing an empty document when none exists.
// An unreadable document falls back to an empty config and is left on disk
// untouched.
func Open(path string, log *slog.Logger) (*Store, error) {
	s := &Store{path: path, log: log, cfg: normalize(models.MonitoredAppConfig{})}
	cfg, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := writeFileAtomic(path, s.cfg); err != nil {
			return nil, fmt.Errorf("failed to create config %s: %w", path, err)
		}
		log.Info("Created monitored app config", "path", path)
	case err != nil:
		log.Warn("Monitored app config unreadable, using empty config", "path", path, "err", err)
	default:
		s.cfg = cfg
	}
	return s, nil
}

// Snapshot returns a copy of the current config.
func (s *Store) Snapshot() models.MonitoredAppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

func (s *Store) Add(app string) (models.MonitoredAppConfig, error) {
	app = strings.TrimSpace(app)
	if app == "" {
		return s.Snapshot(), ErrInvalidApp
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.IsMonitored(app) {
		return s.cfg.Clone(), ErrAlreadyMonitored
	}
	next := s.cfg.Clone()
	next.MonitoredApps = append(next.MonitoredApps, app)
	return s.commit(next)
}

func (s *Store) Remove(app string) (models.MonitoredAppConfig, error) {
	app = strings.TrimSpace(app)
	s.mu.Lock()
	defer s.mu.Unlock()
	if app == "" || !s.cfg.IsMonitored(app) {
		return s.cfg.Clone(), ErrNotMonitored
	}
	next := s.cfg.Clone()
	next.MonitoredApps = slices.DeleteFunc(next.MonitoredApps, func(a string) bool { return a == app })
	return s.commit(next)
}

// Reload re-reads the file and reports whether the config changed. A missing
// or corrupt file keeps the current config.
func (s *Store) Reload() (models.MonitoredAppConfig, bool, error) {
	cfg, err := readFile(s.path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.cfg.Clone(), false, err
	}
	if equal(cfg, s.cfg) {
		return s.cfg.Clone(), false, nil
	}
	s.cfg = cfg
	return s.cfg.Clone(), true, nil
}

// commit persists next and swaps it in; the caller holds mu. On a write
// failure the in-memory config is left unchanged.
func (s *Store) commit(next models.MonitoredAppConfig) (models.MonitoredAppConfig, error) {
	if err := writeFileAtomic(s.path, next); err != nil {
		return s.cfg.Clone(), fmt.Errorf("failed to persist config: %w", err)
	}
	s.cfg = next
	return next.Clone(), nil
}

func readFile(path string) (models.MonitoredAppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.MonitoredAppConfig{}, err
	}
	var cfg models.MonitoredAppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.MonitoredAppConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return normalize(cfg), nil
}

func writeFileAtomic(path string, cfg models.MonitoredAppConfig) error {
	data, err := json.MarshalIndent(normalize(cfg), "", "    ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// normalize drops blank and duplicate names, keeping first occurrences.
func normalize(cfg models.MonitoredAppConfig) models.MonitoredAppConfig {
	return models.MonitoredAppConfig{
		MonitoredApps: dedupe(cfg.MonitoredApps),
		DisabledApps:  dedupe(cfg.DisabledApps),
	}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if strings.TrimSpace(v) == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func equal(a, b models.MonitoredAppConfig) bool {
	return slices.Equal(a.MonitoredApps, b.MonitoredApps) && slices.Equal(a.DisabledApps, b.DisabledApps)
}
