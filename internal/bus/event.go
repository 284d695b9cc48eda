package bus

import "time"

// Event kinds. Subscribers filter by prefix, so "query." receives every query event.
const (
	SessionInvalidated = "session.invalidated" // any 401; payload: request path
	SessionChanged     = "session.changed"     // gate state change; payload: gate.Change
	QueryInvalidated   = "query.invalidated"   // payload: key prefix
	MessageSent        = "message.sent"        // payload: Delivery
	MessageSendFailed  = "message.send_failed" // payload: Delivery
	ChatUpdateFailed   = "chat.update_failed"  // payload: Delivery
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Delivery describes the outcome of one outgoing chat message.
type Delivery struct {
	OutgoingID string
	ChatID     string
	MessageID  string
	Err        string
}
