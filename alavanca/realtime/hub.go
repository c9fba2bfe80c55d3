package realtime

import (
	"sync"

	"alavanca/alavanca/sources/psql/models"
)

const subscriberBuffer = 16

// Hub owns the converged lead snapshot and fans change events out to
// websocket subscribers. The snapshot is the single source of truth the
// dashboard re-derives its views from.
type Hub struct {
	mu    sync.Mutex
	leads []models.Lead
	subs  map[chan LeadEvent]struct{}
}

func NewHub(initial []models.Lead) *Hub {
	return &Hub{
		leads: append([]models.Lead(nil), initial...),
		subs:  make(map[chan LeadEvent]struct{}),
	}
}

// Subscribe returns the current snapshot together with the event channel so
// a new client never misses the events between the two. The returned func
// tears the subscription down.
func (h *Hub) Subscribe() ([]models.Lead, <-chan LeadEvent, func()) {
	ch := make(chan LeadEvent, subscriberBuffer)
	h.mu.Lock()
	snapshot := append([]models.Lead(nil), h.leads...)
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
	return snapshot, ch, cancel
}

func (h *Hub) Snapshot() []models.Lead {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Lead(nil), h.leads...)
}

// Publish applies the event to the snapshot and forwards it to every
// subscriber. A subscriber that stopped draining is skipped rather than
// blocking the feed.
func (h *Hub) Publish(ev LeadEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leads = ApplyLeadEvent(h.leads, ev)
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
