package realtime

// EventKind is the closed set of lifecycle events pushed to clients. Kinds are
// enumerated here rather than built from free-form strings so routing can be
// exhaustive.
type EventKind string

const (
	EventNewOrder       EventKind = "new-order"
	EventOrderUpdated   EventKind = "order-updated"
	EventOrderClosed    EventKind = "order-closed"
	EventOrderCancelled EventKind = "order-cancelled"
	EventTableOccupied  EventKind = "table-occupied"
	EventTableAvailable EventKind = "table-available"
	EventTableUpdated   EventKind = "table-updated"
	EventTablesUpdated  EventKind = "tables-updated"
)

// Event is a single broadcast. OrderID scopes the event to an order room in
// addition to the admin room; zero means admin-only.
type Event struct {
	Kind    EventKind `json:"event"`
	OrderID int64     `json:"orderId,omitempty"`
	Payload any       `json:"data,omitempty"`
}

// Broadcaster fans lifecycle events out to connected subscribers. Delivery is
// best-effort and at-most-once per subscriber; nothing is queued or replayed.
type Broadcaster interface {
	Broadcast(ev Event)
}
