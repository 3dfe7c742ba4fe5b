package model

import "time"

// QueueEntry is the per-station work-tracking mirror of an order item.
// Exactly one entry exists for every item that requires kitchen preparation;
// beverage items never get one. The entry's status is derived from the
// item's status and may lag it when a mirror write fails; the order item
// always wins. Entries live as long as their item and serve as the record
// of station throughput.
//
// Fields:
//
//	ID           – primary key identifier.
//	RestaurantID – owning tenant.
//	OrderItemID  – the mirrored order item.
//	Station      – raw station the item was routed to.
//	Status       – mirrored preparation status.
//	CreatedAt    – when the item was enqueued.
//	StartedAt    – stamped when the entry reaches in_progress (nullable).
//	DoneAt       – stamped when the entry reaches done (nullable).
type QueueEntry struct {
	ID           uint64     // kitchen_queue.id
	RestaurantID uint64     // kitchen_queue.restaurant_id
	OrderItemID  uint64     // kitchen_queue.order_item_id
	Station      string     // kitchen_queue.station
	Status       ItemStatus // kitchen_queue.status
	CreatedAt    time.Time  // kitchen_queue.created_at
	StartedAt    *time.Time // kitchen_queue.started_at (nullable)
	DoneAt       *time.Time // kitchen_queue.done_at (nullable)
}
