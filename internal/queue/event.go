// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEventQueue is the durable queue booking change events flow
// through.  The HTTP handlers and the expiry worker publish to it; the
// consumer invalidates the slot cache and writes the activity log.
const BookingEventQueue = "booking.events"

// Actions carried on a BookingChangedEvent.
const (
    ActionCreated   = "created"
    ActionConfirmed = "confirmed"
    ActionCancelled = "cancelled"
    ActionExpired   = "expired"
)

// BookingChangedEvent is published whenever a booking group is created
// or changes status.  It contains enough information for downstream
// consumers to purge caches, log, or notify without querying the
// primary database.
type BookingChangedEvent struct {
    Action       string  `json:"action"`
    GroupID      string  `json:"group_id"`
    FieldID      uint64  `json:"field_id"`
    Date         string  `json:"date"`
    Hours        []int   `json:"hours"`
    Status       string  `json:"status"`
    UserID       *uint64 `json:"user_id,omitempty"`
    CustomerName string  `json:"customer_name,omitempty"`
    TotalPrice   int64   `json:"total_price,omitempty"`
    OccurredAt   string  `json:"occurred_at"`
}
