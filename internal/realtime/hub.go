package realtime

import (
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/config"
)

// Module provides the hub and binds it as the Broadcaster capability.
var Module = fx.Options(
	fx.Provide(NewHub),
	fx.Provide(func(h *Hub) Broadcaster { return h }),
)

// Subscriber is one connected client. Events arrive on a buffered channel;
// when the buffer is full the event is dropped for that subscriber.
type Subscriber struct {
	events chan Event
}

// Events exposes the subscriber's receive channel.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub routes events to an admin room and per-order rooms. It never blocks the
// caller: a Broadcast completes synchronously regardless of subscriber state.
type Hub struct {
	mu     sync.RWMutex
	admin  map[*Subscriber]struct{}
	orders map[int64]map[*Subscriber]struct{}
	buffer int
	logger *zap.Logger
}

// NewHub constructs the hub with the configured per-subscriber buffer.
func NewHub(cfg config.Config, logger *zap.Logger) *Hub {
	buffer := cfg.Realtime.SendBuffer
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		admin:  make(map[*Subscriber]struct{}),
		orders: make(map[int64]map[*Subscriber]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new client connection. The client joins no rooms
// until it issues explicit join actions.
func (h *Hub) Subscribe() *Subscriber {
	return &Subscriber{events: make(chan Event, h.buffer)}
}

// Unsubscribe detaches the client from every room and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	delete(h.admin, sub)
	for orderID, room := range h.orders {
		delete(room, sub)
		if len(room) == 0 {
			delete(h.orders, orderID)
		}
	}
	// Closed under the write lock so Broadcast can never send on a closed
	// channel: sends hold the read lock.
	close(sub.events)
	h.mu.Unlock()
}

// JoinAdmin attaches the subscriber to the admin room. Role checks belong to
// the transport layer; the hub routes blindly.
func (h *Hub) JoinAdmin(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	h.admin[sub] = struct{}{}
	h.mu.Unlock()
}

// JoinOrder attaches the subscriber to a single order's room.
func (h *Hub) JoinOrder(sub *Subscriber, orderID int64) {
	if sub == nil || orderID == 0 {
		return
	}
	h.mu.Lock()
	room, ok := h.orders[orderID]
	if !ok {
		room = make(map[*Subscriber]struct{})
		h.orders[orderID] = room
	}
	room[sub] = struct{}{}
	h.mu.Unlock()
}

// LeaveOrder detaches the subscriber from an order room.
func (h *Hub) LeaveOrder(sub *Subscriber, orderID int64) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	if room, ok := h.orders[orderID]; ok {
		delete(room, sub)
		if len(room) == 0 {
			delete(h.orders, orderID)
		}
	}
	h.mu.Unlock()
}

// Broadcast delivers the event to the admin room and, when the event is
// order-scoped, to that order's room. A subscriber in both rooms still
// receives the event once.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make(map[*Subscriber]struct{}, len(h.admin))
	for sub := range h.admin {
		targets[sub] = struct{}{}
	}
	if ev.OrderID != 0 {
		for sub := range h.orders[ev.OrderID] {
			targets[sub] = struct{}{}
		}
	}

	for sub := range targets {
		select {
		case sub.events <- ev:
		default:
			if h.logger != nil {
				h.logger.Debug("subscriber buffer full; event dropped",
					zap.String("event", string(ev.Kind)),
					zap.Int64("order_id", ev.OrderID),
				)
			}
		}
	}
}
