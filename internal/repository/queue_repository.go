package repository

import (
	"context"
	"database/sql"

	"github.com/yerinlee/dinepos/internal/model"
)

// QueueRepo provides data access to the kitchen_queue table, the per-station
// mirror of order item statuses. Writes here are a secondary projection:
// callers treat failures as warnings because kitchen_queue is derived from
// the authoritative order_item row.
type QueueRepo struct {
	db *sql.DB
}

// NewQueueRepo returns a new QueueRepo bound to the given database.
func NewQueueRepo(db *sql.DB) *QueueRepo { return &QueueRepo{db: db} }

// ExistingItemIDs returns which of the given order item IDs already have a
// queue entry. Enqueue paths use this one batched existence check to stay
// idempotent against retried add calls.
func (r *QueueRepo) ExistingItemIDs(ctx context.Context, restaurantID uint64, itemIDs []uint64) (map[uint64]struct{}, error) {
	out := make(map[uint64]struct{}, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(itemIDs)+1)
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, restaurantID)
	q := `SELECT order_item_id FROM kitchen_queue
	      WHERE order_item_id IN (` + in(len(itemIDs)) + `) AND restaurant_id = ?`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// InsertBatch adds queue entries for the given items in a single statement.
// Passing an empty slice has no effect and returns nil. Callers must have
// filtered out items that already carry an entry (see ExistingItemIDs) and
// items whose station bypasses the kitchen.
func (r *QueueRepo) InsertBatch(ctx context.Context, entries []model.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	q := `INSERT INTO kitchen_queue (restaurant_id, order_item_id, station, status) VALUES `
	args := make([]any, 0, len(entries)*4)
	for i, e := range entries {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?)"
		args = append(args, e.RestaurantID, e.OrderItemID, e.Station, e.Status)
	}
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// UpdateStatusByItemID mirrors a single item's new status onto its queue
// entry, stamping started_at or done_at when the entry first reaches the
// corresponding stage. A missing entry (beverage bypass) affects zero rows
// and is not an error.
func (r *QueueRepo) UpdateStatusByItemID(ctx context.Context, restaurantID, itemID uint64, status model.ItemStatus) error {
	q := `UPDATE kitchen_queue SET status = ?` + stampFor(status) + `
	      WHERE order_item_id = ? AND restaurant_id = ?`
	_, err := r.db.ExecContext(ctx, q, status, itemID, restaurantID)
	return err
}

// BulkUpdateStatusByItemIDs mirrors a bulk transition onto the queue
// entries for the given item ID set.
func (r *QueueRepo) BulkUpdateStatusByItemIDs(ctx context.Context, restaurantID uint64, itemIDs []uint64, status model.ItemStatus) error {
	if len(itemIDs) == 0 {
		return nil
	}
	args := []any{status}
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, restaurantID)
	q := `UPDATE kitchen_queue SET status = ?` + stampFor(status) + `
	      WHERE order_item_id IN (` + in(len(itemIDs)) + `) AND restaurant_id = ?`
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// stampFor returns the additional SET clause for stage timestamps. The
// COALESCE keeps the first stamp when a bulk transition skips over
// in_progress or re-applies done.
func stampFor(status model.ItemStatus) string {
	switch status {
	case model.ItemInProgress:
		return `, started_at = COALESCE(started_at, UTC_TIMESTAMP())`
	case model.ItemDone:
		return `, done_at = COALESCE(done_at, UTC_TIMESTAMP())`
	default:
		return ``
	}
}

// ListByStation returns the queue entries for a station, oldest first. It
// backs the kitchen display for stations that keep their own work queue.
func (r *QueueRepo) ListByStation(ctx context.Context, restaurantID uint64, station model.Station, statuses []model.ItemStatus) ([]model.QueueEntry, error) {
	if len(statuses) == 0 {
		return []model.QueueEntry{}, nil
	}
	raw := model.RawValues(station)
	args := []any{restaurantID}
	for _, s := range raw {
		args = append(args, s)
	}
	for _, s := range statuses {
		args = append(args, s)
	}
	q := `SELECT id, restaurant_id, order_item_id, station, status, created_at, started_at, done_at
	      FROM kitchen_queue
	      WHERE restaurant_id = ?
	        AND station IN (` + in(len(raw)) + `)
	        AND status IN (` + in(len(statuses)) + `)
	      ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.QueueEntry, 0)
	for rows.Next() {
		var e model.QueueEntry
		var started, done sql.NullTime
		if err := rows.Scan(&e.ID, &e.RestaurantID, &e.OrderItemID, &e.Station, &e.Status,
			&e.CreatedAt, &started, &done); err != nil {
			return nil, err
		}
		if started.Valid {
			t := started.Time
			e.StartedAt = &t
		}
		if done.Valid {
			t := done.Time
			e.DoneAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
