// Package repository implements data access over MySQL. Every query and
// write is scoped by restaurant_id; a row that exists under another tenant
// is indistinguishable from a missing row. The sentinel errors below let
// handlers map failure scenarios to HTTP responses without inspecting SQL
// errors.
package repository

import "errors"

// ErrTableNotFound is returned when a dining table does not resolve within
// the caller's tenant. Cross-tenant lookups return this, never the row.
var ErrTableNotFound = errors.New("table not found")

// ErrOrderNotFound is returned when an order ticket does not resolve within
// the caller's tenant.
var ErrOrderNotFound = errors.New("order not found")

// ErrMenuItemNotFound is returned when a referenced menu item does not
// resolve. Item adds abort entirely on this error; no partial inserts are
// left behind.
var ErrMenuItemNotFound = errors.New("menu item not found")

// ErrMenuItemInUse is returned when deleting a menu item that order rows
// still reference. The item can be marked unavailable instead.
var ErrMenuItemInUse = errors.New("menu item is referenced by orders")

// ErrItemNotFound is returned when an order item does not resolve within
// the caller's tenant.
var ErrItemNotFound = errors.New("order item not found")

// ErrWaitNotFound is returned when a waitlist entry does not resolve within
// the caller's tenant.
var ErrWaitNotFound = errors.New("waitlist entry not found")

// ErrInvalidTransition is returned when a requested status change is not
// reachable from the current status. Handlers translate this into HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")
