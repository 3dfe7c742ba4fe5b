package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yerinlee/dinepos/internal/model"
)

// TicketRepo provides data access to the order_ticket table. The invariant
// it protects: at most one active (open or sent_to_kitchen) ticket per
// table. Status transitions embed their expected-current-status predicate
// directly in the UPDATE so racing callers cannot double-apply a transition.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, restaurant_id, table_id, status, channel, total, created_at, closed_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.OrderTicket, error) {
	var t model.OrderTicket
	var closedAt sql.NullTime
	err := row.Scan(&t.ID, &t.RestaurantID, &t.TableID, &t.Status, &t.Channel, &t.Total, &t.CreatedAt, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if closedAt.Valid {
		c := closedAt.Time
		t.ClosedAt = &c
	}
	return &t, nil
}

// GetByID returns the ticket with the given ID within the tenant.
func (r *TicketRepo) GetByID(ctx context.Context, restaurantID, id uint64) (*model.OrderTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM order_ticket WHERE id = ? AND restaurant_id = ?`
	return scanTicket(r.db.QueryRowContext(ctx, q, id, restaurantID))
}

// LatestByTable returns the most recent ticket of any status for the table,
// or ErrOrderNotFound when the table has never had one. Callers decide
// whether the returned ticket is reusable (active) or a new visit has to be
// opened (terminal).
func (r *TicketRepo) LatestByTable(ctx context.Context, restaurantID, tableID uint64) (*model.OrderTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM order_ticket
	           WHERE table_id = ? AND restaurant_id = ?
	           ORDER BY created_at DESC, id DESC
	           LIMIT 1`
	return scanTicket(r.db.QueryRowContext(ctx, q, tableID, restaurantID))
}

// Create opens a new ticket for the table in status open and returns it.
func (r *TicketRepo) Create(ctx context.Context, restaurantID, tableID uint64, channel model.Channel) (*model.OrderTicket, error) {
	const q = `INSERT INTO order_ticket (restaurant_id, table_id, status, channel) VALUES (?, ?, 'open', ?)`
	res, err := r.db.ExecContext(ctx, q, restaurantID, tableID, channel)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, restaurantID, uint64(id))
}

// TransitionToKitchen flips the ticket from open to sent_to_kitchen. The
// guard only fires from open: when two items are added concurrently, one
// caller advances the ticket and the other sees zero affected rows, which
// is reported as advanced=false and is not an error.
func (r *TicketRepo) TransitionToKitchen(ctx context.Context, restaurantID, orderID uint64) (bool, error) {
	const q = `UPDATE order_ticket SET status = 'sent_to_kitchen'
	           WHERE id = ? AND restaurant_id = ? AND status = 'open'`
	res, err := r.db.ExecContext(ctx, q, orderID, restaurantID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CompleteActiveByTable closes any active ticket of the table to completed.
// Used when a table is cleared without going through the cashier. Zero
// matching tickets is a no-op.
func (r *TicketRepo) CompleteActiveByTable(ctx context.Context, restaurantID, tableID uint64) (int64, error) {
	const q = `UPDATE order_ticket SET status = 'completed'
	           WHERE table_id = ? AND restaurant_id = ? AND status IN ('open','sent_to_kitchen')`
	res, err := r.db.ExecContext(ctx, q, tableID, restaurantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HasActiveByTable reports whether the table currently has an open or
// sent_to_kitchen ticket.
func (r *TicketRepo) HasActiveByTable(ctx context.Context, restaurantID, tableID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM order_ticket
	           WHERE table_id = ? AND restaurant_id = ? AND status IN ('open','sent_to_kitchen')`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tableID, restaurantID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
