package ws

import (
	"log/slog"
	"sync"

	"github.com/The-Promised-Neverland/hostwatch/internal/models"
)

// Subscriber is a delivery target registered in the hub. Send must not block
// on network I/O; a returned error marks the subscriber dead.
type Subscriber interface {
	ID() string
	Send(ev models.Event) error
	Close()
}

// Hub is the registry of connected subscribers and fans events out to them.
type Hub struct {
	subscribers map[string]Subscriber
	mutex       sync.RWMutex
	log         *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]Subscriber),
		log:         log,
	}
}

func (h *Hub) Register(s Subscriber) {
	h.mutex.Lock()
	h.subscribers[s.ID()] = s
	total := len(h.subscribers)
	h.mutex.Unlock()
	h.log.Info("Subscriber registered", "id", s.ID(), "subscribers", total)
}

// Unregister removes and closes s. Unknown or already removed subscribers are
// ignored.
func (h *Hub) Unregister(s Subscriber) {
	h.mutex.Lock()
	current, ok := h.subscribers[s.ID()]
	if ok && current == s {
		delete(h.subscribers, s.ID())
	}
	total := len(h.subscribers)
	h.mutex.Unlock()
	if !ok || current != s {
		return
	}
	s.Close()
	h.log.Info("Subscriber unregistered", "id", s.ID(), "subscribers", total)
}

// SendTo delivers ev to one subscriber. On failure the subscriber is pruned;
// the result only reports whether delivery was accepted.
func (h *Hub) SendTo(s Subscriber, ev models.Event) bool {
	if err := s.Send(ev); err != nil {
		h.log.Warn("Delivery failed, pruning subscriber", "id", s.ID(), "type", ev.EventType(), "err", err)
		h.Unregister(s)
		return false
	}
	return true
}

// Broadcast delivers ev to every registered subscriber, prunes those that
// failed and returns how many accepted it.
func (h *Hub) Broadcast(ev models.Event) int {
	delivered, failed := h.Deliver(ev)
	h.Prune(failed)
	return delivered
}

// Deliver sends ev to every registered subscriber without pruning. The
// registry is copied under the lock and delivery happens outside it, so
// registration changes mid-delivery are safe. Callers hand failed to Prune
// once they hold no locks of their own.
func (h *Hub) Deliver(ev models.Event) (delivered int, failed []Subscriber) {
	for _, s := range h.snapshot() {
		if err := s.Send(ev); err != nil {
			h.log.Warn("Delivery failed", "id", s.ID(), "type", ev.EventType(), "err", err)
			failed = append(failed, s)
			continue
		}
		delivered++
	}
	return delivered, failed
}

// Prune unregisters and closes every subscriber in failed.
func (h *Hub) Prune(failed []Subscriber) {
	for _, s := range failed {
		h.Unregister(s)
	}
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers)
}

// CloseAll unregisters every subscriber.
func (h *Hub) CloseAll() {
	for _, s := range h.snapshot() {
		h.Unregister(s)
	}
}

func (h *Hub) snapshot() []Subscriber {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	out := make([]Subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		out = append(out, s)
	}
	return out
}
