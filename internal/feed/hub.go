package feed

import (
	"context"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

const DefaultBuffer = 64

// Hub fans change events out to in-process subscribers.
type Hub struct {
	logger *log.Entry
	buffer int

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

func NewHub(logger *log.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		logger: logger.WithField("component", "feed.hub"),
		buffer: buffer,
		subs:   make(map[*Subscription]struct{}),
	}
}

// Subscribe returns a handle owned by the caller, who must Close it. On a
// closed hub the returned subscription is already closed.
func (h *Hub) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{hub: h, filter: filter, ch: make(chan ChangeEvent, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.closed = true
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Publish delivers ev to every matching subscriber without blocking. A
// subscriber whose buffer is full misses the event.
func (h *Hub) Publish(_ context.Context, ev ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.filter.Matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
			h.logger.WithFields(log.Fields{
				"table":     ev.Table,
				"team_id":   sub.filter.TeamID,
				"record_id": ev.RecordID,
			}).Warn("subscriber buffer full, dropping change event")
		}
	}
	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close releases every open subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		sub.closeLocked()
	}
	h.subs = map[*Subscription]struct{}{}
}

type Subscription struct {
	hub     *Hub
	filter  Filter
	ch      chan ChangeEvent
	closed  bool
	dropped atomic.Uint64
}

// Events is closed once the subscription is released.
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.ch
}

func (s *Subscription) Filter() Filter {
	return s.filter
}

func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.closeLocked()
}

func (s *Subscription) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	delete(s.hub.subs, s)
	close(s.ch)
}
