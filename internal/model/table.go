package model

import "time"

// TableStatus is the occupancy state of a dining table.
//
// empty    – cleaned and ready for a new party
// seated   – a party is at the table (an active ticket may exist)
// dirty    – the party left or paid; the table needs bussing
// reserved – held for a reservation
// removed  – soft-deleted; kept because historical tickets reference it
type TableStatus string

const (
	TableEmpty    TableStatus = "empty"
	TableSeated   TableStatus = "seated"
	TableDirty    TableStatus = "dirty"
	TableReserved TableStatus = "reserved"
	TableRemoved  TableStatus = "removed"
)

// Available reports whether a new party can be seated at a table in this
// status. Only empty counts: reserved tables are held for their reservation
// and dirty tables must be cleaned first. This is the single definition used
// by every seating surface.
func (s TableStatus) Available() bool {
	return s == TableEmpty
}

// DiningTable is one physical table of a restaurant. Token is an opaque
// identifier embedded in the table's QR code so guests can reach their
// ticket without guessable IDs; it is nullable until first issued.
type DiningTable struct {
	ID           uint64      // dining_table.id
	RestaurantID uint64      // dining_table.restaurant_id
	Label        string      // dining_table.label
	Capacity     int         // dining_table.capacity
	Status       TableStatus // dining_table.status
	Token        *string     // dining_table.table_token (nullable)
	CreatedAt    time.Time   // dining_table.created_at
}
