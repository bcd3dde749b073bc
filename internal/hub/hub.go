package hub

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

// Snapshots arrive once per poll cycle, so a small buffer absorbs a stalled
// client without holding the publisher.
const subscriberBuffer = 16

// Hub fans the latest telemetry snapshot out to live subscribers (WebSocket
// dashboards). The poll loop publishes; subscribers each get every snapshot.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.Telemetry]struct{}
	dropped     atomic.Int64
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subscribers: make(map[chan model.Telemetry]struct{})}
}

// Subscribe returns a buffered channel receiving each published snapshot.
// Callers must Unsubscribe when done or the channel leaks.
func (h *Hub) Subscribe() chan model.Telemetry {
	ch := make(chan model.Telemetry, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan model.Telemetry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Publish sends a snapshot to every subscriber. A subscriber whose buffer is
// full misses this snapshot; the next cycle brings a fresher one anyway.
func (h *Hub) Publish(snap model.Telemetry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- snap:
		default:
			n := h.dropped.Add(1)
			log.Debug().Int64("total_dropped", n).Msg("hub: snapshot dropped for slow subscriber")
		}
	}
}

// Dropped returns the total number of snapshots dropped for slow subscribers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
