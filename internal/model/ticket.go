package model

import "time"

// TicketStatus is the lifecycle state of an order ticket.
//
// open            – ticket exists, no item sent yet
// sent_to_kitchen – at least one item has been routed to a station
// completed       – table was cleared without payment being recorded here
// paid            – settled by the cashier
//
// open and sent_to_kitchen are the active statuses; at most one active
// ticket may exist per table at any time. completed and paid are terminal:
// a returning guest gets a fresh ticket.
type TicketStatus string

const (
	TicketOpen          TicketStatus = "open"
	TicketSentToKitchen TicketStatus = "sent_to_kitchen"
	TicketCompleted     TicketStatus = "completed"
	TicketPaid          TicketStatus = "paid"
)

// Active reports whether the ticket still accepts items.
func (s TicketStatus) Active() bool {
	return s == TicketOpen || s == TicketSentToKitchen
}

// Channel records how an order was started.
type Channel string

const (
	ChannelQR     Channel = "qr"      // guest scanned the table QR code
	ChannelDineIn Channel = "dine_in" // staff seated the party
)

// OrderTicket is the per-visit order aggregate for a table.
//
// Fields:
//
//	ID           – primary key identifier.
//	RestaurantID – owning tenant.
//	TableID      – table the visit belongs to.
//	Status       – lifecycle state (see TicketStatus).
//	Channel      – how the order was started (qr, dine_in).
//	Total        – settled total in minor currency units; written at payment.
//	CreatedAt    – creation timestamp.
//	ClosedAt     – when the ticket reached paid (nullable).
type OrderTicket struct {
	ID           uint64       // order_ticket.id
	RestaurantID uint64       // order_ticket.restaurant_id
	TableID      uint64       // order_ticket.table_id
	Status       TicketStatus // order_ticket.status
	Channel      Channel      // order_ticket.channel
	Total        int64        // order_ticket.total
	CreatedAt    time.Time    // order_ticket.created_at
	ClosedAt     *time.Time   // order_ticket.closed_at (nullable)
}
