package handler

import (
	"context"
	"time"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
)

// Function-field fakes for the store interfaces. A nil field means the
// method returns zero values; tests set only what the path under test
// touches.

type fakeTableStore struct {
	getByID          func(restaurantID, id uint64) (*model.DiningTable, error)
	getByToken       func(restaurantID uint64, token string) (*model.DiningTable, error)
	getByLabel       func(restaurantID uint64, label string) (*model.DiningTable, error)
	create           func(restaurantID uint64, label string, status model.TableStatus) (uint64, error)
	setStatus        func(restaurantID, id uint64, status model.TableStatus) error
	markClean        func(restaurantID, id uint64) (bool, error)
	bulkClean        func(restaurantID uint64) (int64, error)
	setToken         func(restaurantID, id uint64, token string) error
	listMissingToken func(restaurantID uint64) ([]uint64, error)
	list             func(restaurantID uint64) ([]model.DiningTable, error)
}

func (f *fakeTableStore) GetByID(_ context.Context, rid, id uint64) (*model.DiningTable, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(rid, id)
}

func (f *fakeTableStore) GetByToken(_ context.Context, rid uint64, token string) (*model.DiningTable, error) {
	if f.getByToken == nil {
		return nil, nil
	}
	return f.getByToken(rid, token)
}

func (f *fakeTableStore) GetByLabel(_ context.Context, rid uint64, label string) (*model.DiningTable, error) {
	if f.getByLabel == nil {
		return nil, nil
	}
	return f.getByLabel(rid, label)
}

func (f *fakeTableStore) Create(_ context.Context, rid uint64, label string, status model.TableStatus) (uint64, error) {
	if f.create == nil {
		return 0, nil
	}
	return f.create(rid, label, status)
}

func (f *fakeTableStore) SetStatus(_ context.Context, rid, id uint64, status model.TableStatus) error {
	if f.setStatus == nil {
		return nil
	}
	return f.setStatus(rid, id, status)
}

func (f *fakeTableStore) MarkClean(_ context.Context, rid, id uint64) (bool, error) {
	if f.markClean == nil {
		return false, nil
	}
	return f.markClean(rid, id)
}

func (f *fakeTableStore) BulkClean(_ context.Context, rid uint64) (int64, error) {
	if f.bulkClean == nil {
		return 0, nil
	}
	return f.bulkClean(rid)
}

func (f *fakeTableStore) SetToken(_ context.Context, rid, id uint64, token string) error {
	if f.setToken == nil {
		return nil
	}
	return f.setToken(rid, id, token)
}

func (f *fakeTableStore) ListMissingToken(_ context.Context, rid uint64) ([]uint64, error) {
	if f.listMissingToken == nil {
		return nil, nil
	}
	return f.listMissingToken(rid)
}

func (f *fakeTableStore) List(_ context.Context, rid uint64) ([]model.DiningTable, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(rid)
}

type fakeTicketStore struct {
	getByID             func(restaurantID, id uint64) (*model.OrderTicket, error)
	latestByTable       func(restaurantID, tableID uint64) (*model.OrderTicket, error)
	create              func(restaurantID, tableID uint64, channel model.Channel) (*model.OrderTicket, error)
	transitionToKitchen func(restaurantID, orderID uint64) (bool, error)
	completeActive      func(restaurantID, tableID uint64) (int64, error)
	hasActive           func(restaurantID, tableID uint64) (bool, error)
}

func (f *fakeTicketStore) GetByID(_ context.Context, rid, id uint64) (*model.OrderTicket, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(rid, id)
}

func (f *fakeTicketStore) LatestByTable(_ context.Context, rid, tableID uint64) (*model.OrderTicket, error) {
	if f.latestByTable == nil {
		return nil, nil
	}
	return f.latestByTable(rid, tableID)
}

func (f *fakeTicketStore) Create(_ context.Context, rid, tableID uint64, channel model.Channel) (*model.OrderTicket, error) {
	if f.create == nil {
		return &model.OrderTicket{ID: 1, RestaurantID: rid, TableID: tableID, Status: model.TicketOpen, Channel: channel}, nil
	}
	return f.create(rid, tableID, channel)
}

func (f *fakeTicketStore) TransitionToKitchen(_ context.Context, rid, orderID uint64) (bool, error) {
	if f.transitionToKitchen == nil {
		return true, nil
	}
	return f.transitionToKitchen(rid, orderID)
}

func (f *fakeTicketStore) CompleteActiveByTable(_ context.Context, rid, tableID uint64) (int64, error) {
	if f.completeActive == nil {
		return 0, nil
	}
	return f.completeActive(rid, tableID)
}

func (f *fakeTicketStore) HasActiveByTable(_ context.Context, rid, tableID uint64) (bool, error) {
	if f.hasActive == nil {
		return false, nil
	}
	return f.hasActive(rid, tableID)
}

type fakeMenuStore struct {
	getByID  func(restaurantID, id uint64) (*model.MenuItem, error)
	getByIDs func(restaurantID uint64, ids []uint64) (map[uint64]model.MenuItem, error)
}

func (f *fakeMenuStore) GetByID(_ context.Context, rid, id uint64) (*model.MenuItem, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(rid, id)
}

func (f *fakeMenuStore) GetByIDs(_ context.Context, rid uint64, ids []uint64) (map[uint64]model.MenuItem, error) {
	if f.getByIDs == nil {
		return nil, nil
	}
	return f.getByIDs(rid, ids)
}

type fakeMenuAdminStore struct {
	list            func(restaurantID uint64) ([]model.MenuItem, error)
	upsert          func(m *model.MenuItem) (uint64, error)
	setAvailability func(restaurantID, id uint64, available bool) error
	delete          func(restaurantID, id uint64) error
}

func (f *fakeMenuAdminStore) List(_ context.Context, rid uint64) ([]model.MenuItem, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(rid)
}

func (f *fakeMenuAdminStore) Upsert(_ context.Context, m *model.MenuItem) (uint64, error) {
	if f.upsert == nil {
		if m.ID != 0 {
			return m.ID, nil
		}
		return 1, nil
	}
	return f.upsert(m)
}

func (f *fakeMenuAdminStore) SetAvailability(_ context.Context, rid, id uint64, available bool) error {
	if f.setAvailability == nil {
		return nil
	}
	return f.setAvailability(rid, id, available)
}

func (f *fakeMenuAdminStore) Delete(_ context.Context, rid, id uint64) error {
	if f.delete == nil {
		return nil
	}
	return f.delete(rid, id)
}

type fakeItemStore struct {
	getByID          func(restaurantID, id uint64) (*model.OrderItem, error)
	insert           func(it *model.OrderItem) (uint64, error)
	insertBatch      func(items []*model.OrderItem) error
	updateGuarded    func(restaurantID, id uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error)
	bulkGuarded      func(restaurantID uint64, ids []uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error)
	listIDsByStation func(restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]uint64, error)
	listByStation    func(restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]model.OrderItem, error)
	listByOrder      func(restaurantID, orderID uint64) ([]model.OrderItem, error)
	deleteQueued     func(restaurantID, id uint64) (bool, error)
	updateQtyQueued  func(restaurantID, id uint64, qty int) (bool, error)
}

func (f *fakeItemStore) GetByID(_ context.Context, rid, id uint64) (*model.OrderItem, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(rid, id)
}

func (f *fakeItemStore) Insert(_ context.Context, it *model.OrderItem) (uint64, error) {
	if f.insert == nil {
		return 1, nil
	}
	return f.insert(it)
}

func (f *fakeItemStore) InsertBatch(_ context.Context, items []*model.OrderItem) error {
	if f.insertBatch == nil {
		for i, it := range items {
			it.ID = uint64(i + 1)
		}
		return nil
	}
	return f.insertBatch(items)
}

func (f *fakeItemStore) UpdateStatusGuarded(_ context.Context, rid, id uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error) {
	if f.updateGuarded == nil {
		return 1, nil
	}
	return f.updateGuarded(rid, id, next, allowed)
}

func (f *fakeItemStore) BulkUpdateStatusGuarded(_ context.Context, rid uint64, ids []uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error) {
	if f.bulkGuarded == nil {
		return int64(len(ids)), nil
	}
	return f.bulkGuarded(rid, ids, next, allowed)
}

func (f *fakeItemStore) ListIDsByStation(_ context.Context, rid uint64, station model.Station, statuses []model.ItemStatus) ([]uint64, error) {
	if f.listIDsByStation == nil {
		return nil, nil
	}
	return f.listIDsByStation(rid, station, statuses)
}

func (f *fakeItemStore) ListByStation(_ context.Context, rid uint64, station model.Station, statuses []model.ItemStatus) ([]model.OrderItem, error) {
	if f.listByStation == nil {
		return nil, nil
	}
	return f.listByStation(rid, station, statuses)
}

func (f *fakeItemStore) ListByOrder(_ context.Context, rid, orderID uint64) ([]model.OrderItem, error) {
	if f.listByOrder == nil {
		return nil, nil
	}
	return f.listByOrder(rid, orderID)
}

func (f *fakeItemStore) DeleteQueued(_ context.Context, rid, id uint64) (bool, error) {
	if f.deleteQueued == nil {
		return false, nil
	}
	return f.deleteQueued(rid, id)
}

func (f *fakeItemStore) UpdateQtyQueued(_ context.Context, rid, id uint64, qty int) (bool, error) {
	if f.updateQtyQueued == nil {
		return false, nil
	}
	return f.updateQtyQueued(rid, id, qty)
}

type fakeQueueStore struct {
	existingItemIDs func(restaurantID uint64, itemIDs []uint64) (map[uint64]struct{}, error)
	insertBatch     func(entries []model.QueueEntry) error
	updateByItemID  func(restaurantID, itemID uint64, status model.ItemStatus) error
	bulkByItemIDs   func(restaurantID uint64, itemIDs []uint64, status model.ItemStatus) error
	listByStation   func(restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]model.QueueEntry, error)
}

func (f *fakeQueueStore) ExistingItemIDs(_ context.Context, rid uint64, itemIDs []uint64) (map[uint64]struct{}, error) {
	if f.existingItemIDs == nil {
		return map[uint64]struct{}{}, nil
	}
	return f.existingItemIDs(rid, itemIDs)
}

func (f *fakeQueueStore) InsertBatch(_ context.Context, entries []model.QueueEntry) error {
	if f.insertBatch == nil {
		return nil
	}
	return f.insertBatch(entries)
}

func (f *fakeQueueStore) UpdateStatusByItemID(_ context.Context, rid, itemID uint64, status model.ItemStatus) error {
	if f.updateByItemID == nil {
		return nil
	}
	return f.updateByItemID(rid, itemID, status)
}

func (f *fakeQueueStore) BulkUpdateStatusByItemIDs(_ context.Context, rid uint64, itemIDs []uint64, status model.ItemStatus) error {
	if f.bulkByItemIDs == nil {
		return nil
	}
	return f.bulkByItemIDs(rid, itemIDs, status)
}

func (f *fakeQueueStore) ListByStation(_ context.Context, rid uint64, station model.Station, statuses []model.ItemStatus) ([]model.QueueEntry, error) {
	if f.listByStation == nil {
		return nil, nil
	}
	return f.listByStation(rid, station, statuses)
}

type fakeSettlementStore struct {
	payOrder    func(restaurantID, orderID uint64, method string, amount int64) (uint64, error)
	listByOrder func(restaurantID, orderID uint64) ([]model.Payment, error)
}

func (f *fakeSettlementStore) PayOrder(_ context.Context, rid, orderID uint64, method string, amount int64) (uint64, error) {
	if f.payOrder == nil {
		return 0, nil
	}
	return f.payOrder(rid, orderID, method, amount)
}

func (f *fakeSettlementStore) ListByOrder(_ context.Context, rid, orderID uint64) ([]model.Payment, error) {
	if f.listByOrder == nil {
		return nil, nil
	}
	return f.listByOrder(rid, orderID)
}

type fakeWaitStore struct {
	insert             func(w *model.WaitEntry) (*model.WaitEntry, error)
	getByID            func(restaurantID, id uint64) (*model.WaitEntry, error)
	call               func(restaurantID, id uint64) error
	seat               func(restaurantID, id uint64, tableID *uint64) error
	setStatus          func(restaurantID, id uint64, status model.WaitStatus) error
	expireProc         func(restaurantID uint64, minutes int) error
	expireBefore       func(restaurantID uint64, cutoff time.Time) (int64, error)
	confirmReservation func(restaurantID, id uint64) error
	listOpen           func(restaurantID uint64) ([]model.WaitEntry, error)
}

func (f *fakeWaitStore) Insert(_ context.Context, w *model.WaitEntry) (*model.WaitEntry, error) {
	if f.insert == nil {
		w.ID = 1
		return w, nil
	}
	return f.insert(w)
}

func (f *fakeWaitStore) GetByID(_ context.Context, rid, id uint64) (*model.WaitEntry, error) {
	if f.getByID == nil {
		return nil, nil
	}
	return f.getByID(rid, id)
}

func (f *fakeWaitStore) Call(_ context.Context, rid, id uint64) error {
	if f.call == nil {
		return nil
	}
	return f.call(rid, id)
}

func (f *fakeWaitStore) Seat(_ context.Context, rid, id uint64, tableID *uint64) error {
	if f.seat == nil {
		return nil
	}
	return f.seat(rid, id, tableID)
}

func (f *fakeWaitStore) SetStatus(_ context.Context, rid, id uint64, status model.WaitStatus) error {
	if f.setStatus == nil {
		return nil
	}
	return f.setStatus(rid, id, status)
}

func (f *fakeWaitStore) ExpireCalledProc(_ context.Context, rid uint64, minutes int) error {
	if f.expireProc == nil {
		return nil
	}
	return f.expireProc(rid, minutes)
}

func (f *fakeWaitStore) ExpireCalledBefore(_ context.Context, rid uint64, cutoff time.Time) (int64, error) {
	if f.expireBefore == nil {
		return 0, nil
	}
	return f.expireBefore(rid, cutoff)
}

func (f *fakeWaitStore) ConfirmReservation(_ context.Context, rid, id uint64) error {
	if f.confirmReservation == nil {
		return nil
	}
	return f.confirmReservation(rid, id)
}

func (f *fakeWaitStore) ListOpen(_ context.Context, rid uint64) ([]model.WaitEntry, error) {
	if f.listOpen == nil {
		return nil, nil
	}
	return f.listOpen(rid)
}

// fakePublisher records every event it is handed.
type fakePublisher struct {
	events []queue.ChangeEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event queue.ChangeEvent) error {
	f.events = append(f.events, event)
	return f.err
}
