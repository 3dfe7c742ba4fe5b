package model

import "time"

// WaitStatus is the state of a waitlist entry.
//
// waiting  – in line (or a confirmed reservation converted back to the line)
// called   – party was called to the host stand; expires back to waiting
// seated   – party was placed at a table
// canceled – party gave up their spot
// no_show  – party never answered the call
type WaitStatus string

const (
	WaitWaiting  WaitStatus = "waiting"
	WaitCalled   WaitStatus = "called"
	WaitSeated   WaitStatus = "seated"
	WaitCanceled WaitStatus = "canceled"
	WaitNoShow   WaitStatus = "no_show"
)

// WaitEntry is one party on the waitlist. Reservation fields are only set
// while IsReservation is true; confirming a reservation converts the row
// into a plain waiting entry.
type WaitEntry struct {
	ID                  uint64     // waitlist.id
	RestaurantID        uint64     // waitlist.restaurant_id
	Name                string     // waitlist.name
	Phone               *string    // waitlist.phone (nullable)
	Size                int        // waitlist.size
	Note                *string    // waitlist.note (nullable)
	Status              WaitStatus // waitlist.status
	CalledAt            *time.Time // waitlist.called_at (nullable)
	SeatedTableID       *uint64    // waitlist.seated_table_id (nullable)
	IsReservation       bool       // waitlist.is_reservation
	ReservationTime     *time.Time // waitlist.reservation_time (nullable)
	ReservationDuration int        // waitlist.reservation_duration (minutes)
	SpecialRequest      *string    // waitlist.special_request (nullable)
	DepositAmount       int64      // waitlist.deposit_amount
	CreatedAt           time.Time  // waitlist.created_at
}
