// Package push fans post snapshots out to stream subscribers.
package push

import (
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bacilogs/bacilogs/shared/api"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/logger"
)

var (
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bacilogs",
		Name:      "push_subscribers",
		Help:      "Number of open post stream subscriptions",
	})
	snapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bacilogs",
		Name:      "push_snapshots_published_total",
		Help:      "Snapshots published to the post stream",
	})
	snapshotsReplaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bacilogs",
		Name:      "push_snapshots_replaced_total",
		Help:      "Pending snapshots replaced by a newer one before a slow subscriber read them",
	})
)

// Hub keeps the latest snapshot and hands it to every subscriber. A slow
// subscriber never blocks Publish: only its newest pending snapshot is kept.
type Hub struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextId  uint64
	seq     uint64
	current []domain.Post
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

type Subscription struct {
	id     uint64
	hub    *Hub
	events chan api.SnapshotEvent
	once   sync.Once
}

// Events is closed once the subscription is cancelled.
func (s *Subscription) Events() <-chan api.SnapshotEvent {
	return s.events
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		close(s.events)
		s.hub.mu.Unlock()
		subscribersGauge.Dec()
	})
}

// Subscribe registers a subscriber. If anything was published already the
// current snapshot is queued for it straight away.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextId++
	sub := &Subscription{id: h.nextId, hub: h, events: make(chan api.SnapshotEvent, 1)}
	h.subs[sub.id] = sub
	subscribersGauge.Inc()

	if h.seq > 0 {
		sub.events <- h.snapshot()
	}
	return sub
}

func (h *Hub) Publish(posts []domain.Post) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.current = slices.Clone(posts)
	snapshotsPublished.Inc()

	event := h.snapshot()
	for _, sub := range h.subs {
		offer(sub.events, event)
	}
	logger.Log.Debug("published snapshot", "component", "push", "sequence", h.seq, "posts", len(posts), "subscribers", len(h.subs))
}

// Current returns the last published snapshot and its sequence number.
func (h *Hub) Current() api.SnapshotEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot()
}

func (h *Hub) snapshot() api.SnapshotEvent {
	return api.SnapshotEvent{Sequence: h.seq, Posts: slices.Clone(h.current)}
}

// offer replaces whatever is pending. Callers hold h.mu, so there is a
// single producer and the second send cannot block.
func offer(ch chan api.SnapshotEvent, event api.SnapshotEvent) {
	select {
	case ch <- event:
		return
	default:
	}
	select {
	case <-ch:
		snapshotsReplaced.Inc()
	default:
	}
	ch <- event
}
