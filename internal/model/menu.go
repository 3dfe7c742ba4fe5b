package model

import "time"

// MenuItem is a sellable dish or drink. Station holds the raw routing value
// as entered by the restaurant; use NormalizeStation before comparing it.
type MenuItem struct {
	ID           uint64    // menu_item.id
	RestaurantID uint64    // menu_item.restaurant_id
	Name         string    // menu_item.name
	Price        int64     // menu_item.price (minor currency units)
	Station      string    // menu_item.station (raw; "bar" aliases "beverages")
	IsAvailable  bool      // menu_item.is_available
	CreatedAt    time.Time // menu_item.created_at
}
