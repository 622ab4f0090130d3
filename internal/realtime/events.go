// internal/realtime/events.go
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event names published on session and store channels
const (
	EventCartUpdated        = "cart.updated"
	EventOrderUpdated       = "order.updated"
	EventOrderPaid          = "order.paid"
	EventChunkCreated       = "chunk.created"
	EventChunkStatusChanged = "chunk.status_changed"
	EventSessionOpened      = "session.opened"
	EventSessionClosed      = "session.closed"
	EventTableStatusChanged = "table.status_changed"
	EventTablesSynced       = "tables.synced"
)

// Event is the envelope delivered to every subscriber of a channel. The
// payload is always a full post-mutation snapshot, never a diff; consumers
// replace their local view wholesale.
type Event struct {
	Channel string          `json:"channel"`
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// SessionChannel returns the channel key observers of one session subscribe to
func SessionChannel(sessionID string) string {
	return "session:" + sessionID
}

// StoreChannel returns the channel key staff devices of one store subscribe to
func StoreChannel(storeID uint) string {
	return fmt.Sprintf("store:%d", storeID)
}
