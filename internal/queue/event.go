// Package queue defines message payloads exchanged over the message broker.
package queue

// Change-event kinds emitted after mutating operations. Consumers use them
// to decide which views to refresh; the core never waits for delivery.
const (
	TableChanged  = "table.changed"
	TicketChanged = "ticket.changed"
	ItemChanged   = "item.changed"
)

// ChangeName is the queue all change events are published to.
const ChangeName = "pos.changes"

// ChangeEvent is published after the core mutates a table, ticket or order
// item. It carries enough to identify what moved without a database round
// trip; observers needing full rows fetch them when they refresh. Change
// propagation is eventually consistent and may lag the authoritative write.
type ChangeEvent struct {
	Kind         string   `json:"kind"`                 // table.changed | ticket.changed | item.changed
	RestaurantID uint64   `json:"restaurant_id"`        // owning tenant
	EntityID     uint64   `json:"entity_id,omitempty"`  // single-entity mutations
	EntityIDs    []uint64 `json:"entity_ids,omitempty"` // bulk mutations
	Status       string   `json:"status,omitempty"`     // new status, when one applies
	Station      string   `json:"station,omitempty"`    // for station-scoped bulk ops
	OccurredAt   string   `json:"occurred_at"`          // RFC3339 UTC
}
