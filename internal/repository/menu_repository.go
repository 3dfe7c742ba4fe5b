package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/yerinlee/dinepos/internal/model"
)

// MenuRepo provides access to the menu_item table. Order flows only read
// name, price and station to snapshot items; the write methods back the
// manager's menu administration surface.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuColumns = `id, restaurant_id, name, price, station, is_available, created_at`

// GetByID returns the menu item with the given ID within the tenant.
func (r *MenuRepo) GetByID(ctx context.Context, restaurantID, id uint64) (*model.MenuItem, error) {
	const q = `SELECT ` + menuColumns + ` FROM menu_item WHERE id = ? AND restaurant_id = ?`
	var m model.MenuItem
	err := r.db.QueryRowContext(ctx, q, id, restaurantID).Scan(
		&m.ID, &m.RestaurantID, &m.Name, &m.Price, &m.Station, &m.IsAvailable, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByIDs returns the menu items for the given ID set keyed by ID. Missing
// IDs are simply absent from the map; callers that require the full set
// must check and abort with ErrMenuItemNotFound themselves.
func (r *MenuRepo) GetByIDs(ctx context.Context, restaurantID uint64, ids []uint64) (map[uint64]model.MenuItem, error) {
	out := make(map[uint64]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(ids)+1)
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	args = append(args, restaurantID)
	q := `SELECT ` + menuColumns + ` FROM menu_item
	      WHERE id IN (` + strings.Join(placeholders, ",") + `) AND restaurant_id = ?`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Price, &m.Station, &m.IsAvailable, &m.CreatedAt); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}

// List returns the tenant's full menu ordered by station then name, sold-out
// items included.
func (r *MenuRepo) List(ctx context.Context, restaurantID uint64) ([]model.MenuItem, error) {
	q := `SELECT ` + menuColumns + ` FROM menu_item WHERE restaurant_id = ? ORDER BY station, name`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Price, &m.Station, &m.IsAvailable, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Upsert inserts the item when its ID is zero and updates it in place
// otherwise. Existing order_item snapshots are untouched either way; a
// price change only affects future orders. Returns the item's ID.
func (r *MenuRepo) Upsert(ctx context.Context, m *model.MenuItem) (uint64, error) {
	if m.ID == 0 {
		const q = `INSERT INTO menu_item (restaurant_id, name, price, station, is_available)
		           VALUES (?, ?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, q, m.RestaurantID, m.Name, m.Price, m.Station, m.IsAvailable)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return uint64(id), nil
	}
	const q = `UPDATE menu_item SET name = ?, price = ?, station = ?, is_available = ?
	           WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Price, m.Station, m.IsAvailable, m.ID, m.RestaurantID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrMenuItemNotFound
	}
	return m.ID, nil
}

// SetAvailability toggles a single item on or off the menu without touching
// the rest of its row.
func (r *MenuRepo) SetAvailability(ctx context.Context, restaurantID, id uint64, available bool) error {
	const q = `UPDATE menu_item SET is_available = ? WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, available, id, restaurantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// Delete removes a menu item that no order ever referenced. Items with
// order_item rows return ErrMenuItemInUse; marking them unavailable is the
// supported way to retire them.
func (r *MenuRepo) Delete(ctx context.Context, restaurantID, id uint64) error {
	var refs int
	const check = `SELECT COUNT(*) FROM order_item WHERE menu_item_id = ? AND restaurant_id = ?`
	if err := r.db.QueryRowContext(ctx, check, id, restaurantID).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrMenuItemInUse
	}
	const q = `DELETE FROM menu_item WHERE id = ? AND restaurant_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, restaurantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
