package alerts

import (
	"cmp"
	"slices"
	"sync"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

// Store is the authoritative set of active alerts plus the transition history.
// A key is active iff its latest applied transition was ALERT.
type Store struct {
	mu           sync.RWMutex
	active       map[models.AlertKey]models.Alert
	history      []models.Alert
	historyLimit int
}

// NewStore creates a store keeping at most historyLimit history entries,
// evicting the oldest first. A limit of 0 keeps everything.
func NewStore(historyLimit int) *Store {
	if historyLimit < 0 {
		historyLimit = 0
	}
	return &Store{
		active:       make(map[models.AlertKey]models.Alert),
		historyLimit: historyLimit,
	}
}

// Apply records a transition. ALERT inserts or overwrites the key, RECOVERY
// removes it when present. The alert is appended to history either way.
func (s *Store) Apply(alert models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch alert.Status {
	case models.StatusAlert:
		s.active[alert.Key()] = alert
	case models.StatusRecovery:
		delete(s.active, alert.Key())
	}
	s.history = append(s.history, alert)
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		s.history = slices.Delete(s.history, 0, len(s.history)-s.historyLimit)
	}
}

// ListActive returns active alerts ordered by server name then alert type.
func (s *Store) ListActive() []models.Alert {
	s.mu.RLock()
	out := make([]models.Alert, 0, len(s.active))
	for _, a := range s.active {
		out = append(out, a)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b models.Alert) int {
		if c := cmp.Compare(a.ServerName, b.ServerName); c != 0 {
			return c
		}
		return cmp.Compare(a.AlertType, b.AlertType)
	})
	return out
}

func (s *Store) Active(key models.AlertKey) (models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.active[key]
	return a, ok
}

// ListHistory returns a copy of the history, oldest first.
func (s *Store) ListHistory() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

func (s *Store) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// ClearHistory empties the history without touching active alerts.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}
