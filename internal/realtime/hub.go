package realtime

import (
	"context"
	"sync"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

// Hub is the in-process registry of subscriptions. Notify never blocks:
// changes for a slow subscriber are coalesced per target until it drains.
type Hub struct {
	mu   sync.RWMutex
	subs map[models.Target]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[models.Target]map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(targets ...models.Target) *Subscription {
	sub := &Subscription{
		targets: targets,
		pending: make(map[models.Target]struct{}),
		ready:   make(chan struct{}, 1),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range targets {
		set, ok := h.subs[t]
		if !ok {
			set = make(map[*Subscription]struct{})
			h.subs[t] = set
		}
		set[sub] = struct{}{}
	}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range sub.targets {
		set := h.subs[t]
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, t)
		}
	}
}

func (h *Hub) Notify(_ context.Context, ch Change) error {
	h.Publish(ch.Target())
	return nil
}

// Publish marks target changed for every subscriber watching it.
func (h *Hub) Publish(target models.Target) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[target] {
		sub.mark(target)
	}
}

// PublishAll marks every watched target changed; used after a source lost events.
func (h *Hub) PublishAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for target, set := range h.subs {
		for sub := range set {
			sub.mark(target)
		}
	}
}

// Subscribers reports how many subscriptions watch target.
func (h *Hub) Subscribers(target models.Target) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[target])
}

type Subscription struct {
	targets []models.Target

	mu      sync.Mutex
	pending map[models.Target]struct{}
	ready   chan struct{}
}

func (s *Subscription) Targets() []models.Target {
	return s.targets
}

// Ready receives a value whenever Drain would return something.
func (s *Subscription) Ready() <-chan struct{} {
	return s.ready
}

// Drain returns and clears the targets changed since the last Drain.
func (s *Subscription) Drain() []models.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Target, 0, len(s.pending))
	for t := range s.pending {
		out = append(out, t)
	}
	clear(s.pending)
	return out
}

func (s *Subscription) mark(t models.Target) {
	s.mu.Lock()
	s.pending[t] = struct{}{}
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}
