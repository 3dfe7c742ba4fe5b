package model

import "time"

// Payment is one settlement row against a ticket. Rows are append-only;
// split payments produce several rows for the same order.
type Payment struct {
	ID           uint64    // payment.id
	RestaurantID uint64    // payment.restaurant_id
	OrderID      uint64    // payment.order_id
	Method       string    // payment.method (card, cash, ...)
	Amount       int64     // payment.amount (minor currency units)
	PaidAt       time.Time // payment.paid_at
}
