package handler

import (
	"context"
	"time"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
)

// The interfaces below name exactly what each handler needs from the
// repository layer. The concrete repositories in internal/repository
// satisfy them; tests substitute in-memory fakes.

// TableStore is the dining-table persistence used by handlers.
type TableStore interface {
	GetByID(ctx context.Context, restaurantID, id uint64) (*model.DiningTable, error)
	GetByToken(ctx context.Context, restaurantID uint64, token string) (*model.DiningTable, error)
	GetByLabel(ctx context.Context, restaurantID uint64, label string) (*model.DiningTable, error)
	Create(ctx context.Context, restaurantID uint64, label string, status model.TableStatus) (uint64, error)
	SetStatus(ctx context.Context, restaurantID, id uint64, status model.TableStatus) error
	MarkClean(ctx context.Context, restaurantID, id uint64) (bool, error)
	BulkClean(ctx context.Context, restaurantID uint64) (int64, error)
	SetToken(ctx context.Context, restaurantID, id uint64, token string) error
	ListMissingToken(ctx context.Context, restaurantID uint64) ([]uint64, error)
	List(ctx context.Context, restaurantID uint64) ([]model.DiningTable, error)
}

// TicketStore is the order-ticket persistence used by handlers.
type TicketStore interface {
	GetByID(ctx context.Context, restaurantID, id uint64) (*model.OrderTicket, error)
	LatestByTable(ctx context.Context, restaurantID, tableID uint64) (*model.OrderTicket, error)
	Create(ctx context.Context, restaurantID, tableID uint64, channel model.Channel) (*model.OrderTicket, error)
	TransitionToKitchen(ctx context.Context, restaurantID, orderID uint64) (bool, error)
	CompleteActiveByTable(ctx context.Context, restaurantID, tableID uint64) (int64, error)
	HasActiveByTable(ctx context.Context, restaurantID, tableID uint64) (bool, error)
}

// MenuStore resolves menu items for snapshotting.
type MenuStore interface {
	GetByID(ctx context.Context, restaurantID, id uint64) (*model.MenuItem, error)
	GetByIDs(ctx context.Context, restaurantID uint64, ids []uint64) (map[uint64]model.MenuItem, error)
}

// MenuAdminStore manages the menu itself. Deleting an item that order rows
// reference fails; callers retire such items through SetAvailability.
type MenuAdminStore interface {
	List(ctx context.Context, restaurantID uint64) ([]model.MenuItem, error)
	Upsert(ctx context.Context, m *model.MenuItem) (uint64, error)
	SetAvailability(ctx context.Context, restaurantID, id uint64, available bool) error
	Delete(ctx context.Context, restaurantID, id uint64) error
}

// ItemStore is the order-item persistence used by handlers. Status updates
// carry their allowed-current-status set so the guard lives in the write.
type ItemStore interface {
	GetByID(ctx context.Context, restaurantID, id uint64) (*model.OrderItem, error)
	Insert(ctx context.Context, it *model.OrderItem) (uint64, error)
	InsertBatch(ctx context.Context, items []*model.OrderItem) error
	UpdateStatusGuarded(ctx context.Context, restaurantID, id uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error)
	BulkUpdateStatusGuarded(ctx context.Context, restaurantID uint64, ids []uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error)
	ListIDsByStation(ctx context.Context, restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]uint64, error)
	ListByStation(ctx context.Context, restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]model.OrderItem, error)
	ListByOrder(ctx context.Context, restaurantID, orderID uint64) ([]model.OrderItem, error)
	DeleteQueued(ctx context.Context, restaurantID, id uint64) (bool, error)
	UpdateQtyQueued(ctx context.Context, restaurantID, id uint64, qty int) (bool, error)
}

// QueueStore is the kitchen-queue mirror persistence. Its writes are a
// secondary projection of item status; callers swallow its failures.
type QueueStore interface {
	ExistingItemIDs(ctx context.Context, restaurantID uint64, itemIDs []uint64) (map[uint64]struct{}, error)
	InsertBatch(ctx context.Context, entries []model.QueueEntry) error
	UpdateStatusByItemID(ctx context.Context, restaurantID, itemID uint64, status model.ItemStatus) error
	BulkUpdateStatusByItemIDs(ctx context.Context, restaurantID uint64, itemIDs []uint64, status model.ItemStatus) error
	ListByStation(ctx context.Context, restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]model.QueueEntry, error)
}

// SettlementStore records payments.
type SettlementStore interface {
	PayOrder(ctx context.Context, restaurantID, orderID uint64, method string, amount int64) (uint64, error)
	ListByOrder(ctx context.Context, restaurantID, orderID uint64) ([]model.Payment, error)
}

// WaitStore is the waitlist persistence used by handlers.
type WaitStore interface {
	Insert(ctx context.Context, w *model.WaitEntry) (*model.WaitEntry, error)
	GetByID(ctx context.Context, restaurantID, id uint64) (*model.WaitEntry, error)
	Call(ctx context.Context, restaurantID, id uint64) error
	Seat(ctx context.Context, restaurantID, id uint64, tableID *uint64) error
	SetStatus(ctx context.Context, restaurantID, id uint64, status model.WaitStatus) error
	ExpireCalledProc(ctx context.Context, restaurantID uint64, minutes int) error
	ExpireCalledBefore(ctx context.Context, restaurantID uint64, cutoff time.Time) (int64, error)
	ConfirmReservation(ctx context.Context, restaurantID, id uint64) error
	ListOpen(ctx context.Context, restaurantID uint64) ([]model.WaitEntry, error)
}

// EventPublisher pushes change events to the notification transport. The
// core treats publishing as fire-and-forget: errors are already logged by
// the publisher and callers ignore them.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ChangeEvent) error
}
