package repository

import (
	"context"
	"database/sql"

	"github.com/yerinlee/dinepos/internal/model"
)

// PaymentRepo provides data access to the payment table and owns the
// settlement unit of work. Payment rows are append-only; a ticket may have
// several (split payment).
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// PayOrder records a payment against the ticket, closes the ticket as paid
// and marks its table dirty, all inside one transaction. A failure at any
// step rolls everything back and surfaces to the caller: the cashier must
// never see success on partial completion. It returns the ID of the table
// that was dirtied.
func (r *PaymentRepo) PayOrder(ctx context.Context, restaurantID, orderID uint64, method string, amount int64) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Resolve the ticket's table up front; a miss here is a tenant-scoped
	// not-found before anything is written.
	var tableID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT table_id FROM order_ticket WHERE id = ? AND restaurant_id = ?`,
		orderID, restaurantID,
	).Scan(&tableID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrOrderNotFound
		}
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO payment (restaurant_id, order_id, method, amount) VALUES (?, ?, ?, ?)`,
		restaurantID, orderID, method, amount,
	); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE order_ticket SET status = 'paid', total = total + ?, closed_at = UTC_TIMESTAMP()
		 WHERE id = ? AND restaurant_id = ?`,
		amount, orderID, restaurantID,
	); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE dining_table SET status = 'dirty' WHERE id = ? AND restaurant_id = ?`,
		tableID, restaurantID,
	); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return tableID, nil
}

// ListByOrder returns the payment rows of a ticket, oldest first.
func (r *PaymentRepo) ListByOrder(ctx context.Context, restaurantID, orderID uint64) ([]model.Payment, error) {
	const q = `SELECT id, restaurant_id, order_id, method, amount, paid_at
	           FROM payment
	           WHERE order_id = ? AND restaurant_id = ?
	           ORDER BY paid_at, id`
	rows, err := r.db.QueryContext(ctx, q, orderID, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.RestaurantID, &p.OrderID, &p.Method, &p.Amount, &p.PaidAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
