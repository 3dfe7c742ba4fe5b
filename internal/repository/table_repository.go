package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yerinlee/dinepos/internal/model"
)

// TableRepo provides data access to the dining_table table. All lookups are
// tenant-scoped: a table belonging to another restaurant behaves exactly
// like a missing table.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, restaurant_id, label, capacity, status, table_token, created_at`

func scanTable(row interface{ Scan(...any) error }) (*model.DiningTable, error) {
	var t model.DiningTable
	var token sql.NullString
	err := row.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &t.Status, &token, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	if token.Valid {
		tok := token.String
		t.Token = &tok
	}
	return &t, nil
}

// GetByID returns the table with the given ID within the tenant.
func (r *TableRepo) GetByID(ctx context.Context, restaurantID, id uint64) (*model.DiningTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_table WHERE id = ? AND restaurant_id = ?`
	return scanTable(r.db.QueryRowContext(ctx, q, id, restaurantID))
}

// GetByToken returns the table carrying the given guest token.
func (r *TableRepo) GetByToken(ctx context.Context, restaurantID uint64, token string) (*model.DiningTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_table WHERE table_token = ? AND restaurant_id = ?`
	return scanTable(r.db.QueryRowContext(ctx, q, token, restaurantID))
}

// GetByLabel returns the table with the given human label.
func (r *TableRepo) GetByLabel(ctx context.Context, restaurantID uint64, label string) (*model.DiningTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_table WHERE label = ? AND restaurant_id = ?`
	return scanTable(r.db.QueryRowContext(ctx, q, label, restaurantID))
}

// Create inserts a new table row and returns its generated ID. Guest order
// flows create tables on the fly when a reference cannot be resolved, so
// capacity defaults to zero until staff configure it.
func (r *TableRepo) Create(ctx context.Context, restaurantID uint64, label string, status model.TableStatus) (uint64, error) {
	const q = `INSERT INTO dining_table (restaurant_id, label, capacity, status) VALUES (?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, q, restaurantID, label, status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetStatus updates a table's occupancy status unconditionally. It returns
// ErrTableNotFound when the table does not exist within the tenant.
func (r *TableRepo) SetStatus(ctx context.Context, restaurantID, id uint64, status model.TableStatus) error {
	const q = `UPDATE dining_table SET status = ? WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id, restaurantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// MarkClean transitions a single table from dirty to empty. The status guard
// is embedded in the write so a table that was re-seated in the meantime is
// left alone. Zero affected rows is not an error.
func (r *TableRepo) MarkClean(ctx context.Context, restaurantID, id uint64) (bool, error) {
	const q = `UPDATE dining_table SET status = 'empty' WHERE id = ? AND restaurant_id = ? AND status = 'dirty'`
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

// BulkClean clears every dirty table that has no active ticket back to
// empty and returns the number of tables affected. Tables whose party is
// still mid-visit keep their status.
func (r *TableRepo) BulkClean(ctx context.Context, restaurantID uint64) (int64, error) {
	const q = `UPDATE dining_table t
	           SET t.status = 'empty'
	           WHERE t.restaurant_id = ?
	             AND t.status = 'dirty'
	             AND NOT EXISTS (
	               SELECT 1 FROM order_ticket o
	               WHERE o.table_id = t.id
	                 AND o.restaurant_id = t.restaurant_id
	                 AND o.status IN ('open','sent_to_kitchen')
	             )`
	res, err := r.db.ExecContext(ctx, q, restaurantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetToken stores the guest token for a table.
func (r *TableRepo) SetToken(ctx context.Context, restaurantID, id uint64, token string) error {
	const q = `UPDATE dining_table SET table_token = ? WHERE id = ? AND restaurant_id = ?`
	_, err := r.db.ExecContext(ctx, q, token, id, restaurantID)
	return err
}

// ListMissingToken returns the IDs of tables that have no guest token yet.
func (r *TableRepo) ListMissingToken(ctx context.Context, restaurantID uint64) ([]uint64, error) {
	const q = `SELECT id FROM dining_table WHERE restaurant_id = ? AND table_token IS NULL AND status <> 'removed'`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns all non-removed tables of the tenant ordered by label. It
// backs the table board.
func (r *TableRepo) List(ctx context.Context, restaurantID uint64) ([]model.DiningTable, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_table
	           WHERE restaurant_id = ? AND status <> 'removed'
	           ORDER BY label`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.DiningTable, 0)
	for rows.Next() {
		var t model.DiningTable
		var token sql.NullString
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &t.Status, &token, &t.CreatedAt); err != nil {
			return nil, err
		}
		if token.Valid {
			tok := token.String
			t.Token = &tok
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
