package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/yerinlee/dinepos/internal/model"
)

// ItemRepo provides data access to the order_item table. The item status is
// the authoritative preparation state; every transition embeds its
// expected-current-status predicate in the UPDATE so that two racing
// callers attempting the same forward transition are each individually
// safe.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo returns a new ItemRepo bound to the given database.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `id, restaurant_id, order_id, menu_item_id, name_snapshot, price_snapshot, qty, note, status, created_at`

// in builds "?,?,?" for n arguments.
func in(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scanItem(row interface{ Scan(...any) error }) (*model.OrderItem, error) {
	var it model.OrderItem
	var note sql.NullString
	err := row.Scan(&it.ID, &it.RestaurantID, &it.OrderID, &it.MenuItemID,
		&it.NameSnapshot, &it.PriceSnapshot, &it.Qty, &note, &it.Status, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if note.Valid {
		n := note.String
		it.Note = &n
	}
	return &it, nil
}

// GetByID returns the order item with the given ID within the tenant.
func (r *ItemRepo) GetByID(ctx context.Context, restaurantID, id uint64) (*model.OrderItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM order_item WHERE id = ? AND restaurant_id = ?`
	return scanItem(r.db.QueryRowContext(ctx, q, id, restaurantID))
}

// Insert adds one order item and returns its generated ID. The name and
// price snapshots must already be resolved by the caller.
func (r *ItemRepo) Insert(ctx context.Context, it *model.OrderItem) (uint64, error) {
	const q = `INSERT INTO order_item
	           (restaurant_id, order_id, menu_item_id, name_snapshot, price_snapshot, qty, note, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		it.RestaurantID, it.OrderID, it.MenuItemID, it.NameSnapshot, it.PriceSnapshot,
		it.Qty, it.Note, it.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	it.ID = uint64(id)
	return it.ID, nil
}

// InsertBatch adds all items inside a single transaction and fills in their
// generated IDs. Either every row is inserted or none is: a failure rolls
// the whole batch back so a ticket's item set stays consistent per call.
func (r *ItemRepo) InsertBatch(ctx context.Context, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const q = `INSERT INTO order_item
	           (restaurant_id, order_id, menu_item_id, name_snapshot, price_snapshot, qty, note, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, it := range items {
		res, err := tx.ExecContext(ctx, q,
			it.RestaurantID, it.OrderID, it.MenuItemID, it.NameSnapshot, it.PriceSnapshot,
			it.Qty, it.Note, it.Status)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		it.ID = uint64(id)
	}
	return tx.Commit()
}

// UpdateStatusGuarded transitions one item to next, but only when its
// current status is in allowed. It returns the number of affected rows;
// zero means the guard did not match (the item moved concurrently or does
// not exist).
func (r *ItemRepo) UpdateStatusGuarded(ctx context.Context, restaurantID, id uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error) {
	if len(allowed) == 0 {
		return 0, nil
	}
	args := []any{next, id, restaurantID}
	for _, s := range allowed {
		args = append(args, s)
	}
	q := `UPDATE order_item SET status = ?
	      WHERE id = ? AND restaurant_id = ? AND status IN (` + in(len(allowed)) + `)`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BulkUpdateStatusGuarded transitions every listed item to next provided
// its current status is still in allowed. The guard is part of the single
// UPDATE, so items that advanced between the caller's scan and this write
// are naturally excluded. Returns the number of rows that actually moved.
func (r *ItemRepo) BulkUpdateStatusGuarded(ctx context.Context, restaurantID uint64, ids []uint64, next model.ItemStatus, allowed []model.ItemStatus) (int64, error) {
	if len(ids) == 0 || len(allowed) == 0 {
		return 0, nil
	}
	args := []any{next}
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, restaurantID)
	for _, s := range allowed {
		args = append(args, s)
	}
	q := `UPDATE order_item SET status = ?
	      WHERE id IN (` + in(len(ids)) + `) AND restaurant_id = ?
	        AND status IN (` + in(len(allowed)) + `)`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListIDsByStation returns the IDs of items whose menu station normalizes
// to the given station and whose status is in statuses. The raw station
// values for the logical station come from model.RawValues so the bar ->
// beverages alias is applied in exactly one place.
func (r *ItemRepo) ListIDsByStation(ctx context.Context, restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]uint64, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	raw := model.RawValues(station)
	args := []any{restaurantID}
	for _, s := range raw {
		args = append(args, s)
	}
	for _, s := range statuses {
		args = append(args, s)
	}
	q := `SELECT oi.id FROM order_item oi
	      JOIN menu_item mi ON mi.id = oi.menu_item_id AND mi.restaurant_id = oi.restaurant_id
	      WHERE oi.restaurant_id = ?
	        AND mi.station IN (` + in(len(raw)) + `)
	        AND oi.status IN (` + in(len(statuses)) + `)
	      ORDER BY oi.created_at, oi.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByStation returns full item rows for the station board, filtered by
// status set, oldest first.
func (r *ItemRepo) ListByStation(ctx context.Context, restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]model.OrderItem, error) {
	if len(statuses) == 0 {
		return []model.OrderItem{}, nil
	}
	raw := model.RawValues(station)
	args := []any{restaurantID}
	for _, s := range raw {
		args = append(args, s)
	}
	for _, s := range statuses {
		args = append(args, s)
	}
	q := `SELECT oi.id, oi.restaurant_id, oi.order_id, oi.menu_item_id, oi.name_snapshot,
	             oi.price_snapshot, oi.qty, oi.note, oi.status, oi.created_at
	      FROM order_item oi
	      JOIN menu_item mi ON mi.id = oi.menu_item_id AND mi.restaurant_id = oi.restaurant_id
	      WHERE oi.restaurant_id = ?
	        AND mi.station IN (` + in(len(raw)) + `)
	        AND oi.status IN (` + in(len(statuses)) + `)
	      ORDER BY oi.created_at, oi.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		var note sql.NullString
		if err := rows.Scan(&it.ID, &it.RestaurantID, &it.OrderID, &it.MenuItemID,
			&it.NameSnapshot, &it.PriceSnapshot, &it.Qty, &note, &it.Status, &it.CreatedAt); err != nil {
			return nil, err
		}
		if note.Valid {
			n := note.String
			it.Note = &n
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByOrder returns all items of a ticket, oldest first.
func (r *ItemRepo) ListByOrder(ctx context.Context, restaurantID, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM order_item
	           WHERE order_id = ? AND restaurant_id = ?
	           ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, orderID, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		var note sql.NullString
		if err := rows.Scan(&it.ID, &it.RestaurantID, &it.OrderID, &it.MenuItemID,
			&it.NameSnapshot, &it.PriceSnapshot, &it.Qty, &note, &it.Status, &it.CreatedAt); err != nil {
			return nil, err
		}
		if note.Valid {
			n := note.String
			it.Note = &n
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DeleteQueued removes an item that the kitchen has not picked up yet. The
// status guard keeps items that already entered preparation on the ticket.
func (r *ItemRepo) DeleteQueued(ctx context.Context, restaurantID, id uint64) (bool, error) {
	const q = `DELETE FROM order_item WHERE id = ? AND restaurant_id = ? AND status = 'queued'`
	res, err := r.db.ExecContext(ctx, q, id, restaurantID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateQtyQueued changes the quantity of an item that is still queued.
func (r *ItemRepo) UpdateQtyQueued(ctx context.Context, restaurantID, id uint64, qty int) (bool, error) {
	const q = `UPDATE order_item SET qty = ? WHERE id = ? AND restaurant_id = ? AND status = 'queued'`
	res, err := r.db.ExecContext(ctx, q, qty, id, restaurantID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
