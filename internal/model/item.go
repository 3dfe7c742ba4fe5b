package model

import "time"

// ItemStatus is the preparation state of a single order line. It is the
// source of truth for the item lifecycle; the kitchen queue entry only
// mirrors it. Transitions move forward only:
//
//	queued -> in_progress -> done -> served
//
// with two side exits: a beverage item is created directly as done (it
// skips preparation), and a queued item may be canceled before the kitchen
// picks it up. Nothing ever leaves a terminal status.
type ItemStatus string

const (
	ItemQueued     ItemStatus = "queued"
	ItemInProgress ItemStatus = "in_progress"
	ItemDone       ItemStatus = "done"
	ItemServed     ItemStatus = "served"
	ItemCanceled   ItemStatus = "canceled"
)

// rank orders the forward path. Higher rank means further along; canceled
// sits outside the path and is handled explicitly.
func (s ItemStatus) rank() int {
	switch s {
	case ItemQueued:
		return 0
	case ItemInProgress:
		return 1
	case ItemDone:
		return 2
	case ItemServed:
		return 3
	}
	return -1
}

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	return s.rank() >= 0 || s == ItemCanceled
}

// CanTransition reports whether next is reachable from s. Reachable means
// strictly forward along the preparation path, or queued -> canceled. A
// status never regresses and terminal statuses (served, canceled) have no
// outgoing transitions.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	if next == ItemCanceled {
		return s == ItemQueued
	}
	if s == ItemCanceled {
		return false
	}
	return next.rank() > s.rank()
}

// ActiveKitchenStatuses are the statuses a bulk "mark done" may pick up:
// work that is still in front of the kitchen.
func ActiveKitchenStatuses() []ItemStatus {
	return []ItemStatus{ItemQueued, ItemInProgress}
}

// OrderItem is one line on an order ticket. Name and price are snapshotted
// from the menu at creation time and stay immutable afterwards, so closed
// tickets are not affected by later menu edits.
type OrderItem struct {
	ID            uint64     // order_item.id
	RestaurantID  uint64     // order_item.restaurant_id
	OrderID       uint64     // order_item.order_id
	MenuItemID    uint64     // order_item.menu_item_id
	NameSnapshot  string     // order_item.name_snapshot
	PriceSnapshot int64      // order_item.price_snapshot (minor currency units)
	Qty           int        // order_item.qty
	Note          *string    // order_item.note (nullable)
	Status        ItemStatus // order_item.status
	CreatedAt     time.Time  // order_item.created_at
}
