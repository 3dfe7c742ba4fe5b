package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yerinlee/dinepos/internal/model"
)

// WaitRepo provides data access to the waitlist table. The same table holds
// walk-in parties and reservations; reservations are distinguished by the
// is_reservation flag and convert into plain waiting entries on arrival.
type WaitRepo struct {
	db *sql.DB
}

// NewWaitRepo returns a new WaitRepo bound to the given database.
func NewWaitRepo(db *sql.DB) *WaitRepo { return &WaitRepo{db: db} }

const waitColumns = `id, restaurant_id, name, phone, size, note, status, called_at,
	seated_table_id, is_reservation, reservation_time, reservation_duration,
	special_request, deposit_amount, created_at`

func scanWait(row interface{ Scan(...any) error }) (*model.WaitEntry, error) {
	var w model.WaitEntry
	var phone, note, special sql.NullString
	var calledAt, resTime sql.NullTime
	var tableID sql.NullInt64
	err := row.Scan(&w.ID, &w.RestaurantID, &w.Name, &phone, &w.Size, &note, &w.Status,
		&calledAt, &tableID, &w.IsReservation, &resTime, &w.ReservationDuration,
		&special, &w.DepositAmount, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWaitNotFound
		}
		return nil, err
	}
	if phone.Valid {
		v := phone.String
		w.Phone = &v
	}
	if note.Valid {
		v := note.String
		w.Note = &v
	}
	if special.Valid {
		v := special.String
		w.SpecialRequest = &v
	}
	if calledAt.Valid {
		t := calledAt.Time
		w.CalledAt = &t
	}
	if resTime.Valid {
		t := resTime.Time
		w.ReservationTime = &t
	}
	if tableID.Valid {
		id := uint64(tableID.Int64)
		w.SeatedTableID = &id
	}
	return &w, nil
}

// Insert adds a new waiting party and returns the stored row.
func (r *WaitRepo) Insert(ctx context.Context, w *model.WaitEntry) (*model.WaitEntry, error) {
	const q = `INSERT INTO waitlist
	           (restaurant_id, name, phone, size, note, status, is_reservation,
	            reservation_time, reservation_duration, special_request, deposit_amount)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		w.RestaurantID, w.Name, w.Phone, w.Size, w.Note, w.Status, w.IsReservation,
		w.ReservationTime, w.ReservationDuration, w.SpecialRequest, w.DepositAmount)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, w.RestaurantID, uint64(id))
}

// GetByID returns a waitlist entry within the tenant.
func (r *WaitRepo) GetByID(ctx context.Context, restaurantID, id uint64) (*model.WaitEntry, error) {
	const q = `SELECT ` + waitColumns + ` FROM waitlist WHERE id = ? AND restaurant_id = ?`
	return scanWait(r.db.QueryRowContext(ctx, q, id, restaurantID))
}

// Call marks a waiting party as called and stamps called_at.
func (r *WaitRepo) Call(ctx context.Context, restaurantID, id uint64) error {
	const q = `UPDATE waitlist SET status = 'called', called_at = UTC_TIMESTAMP()
	           WHERE id = ? AND restaurant_id = ?`
	return r.execExpectingRow(ctx, q, id, restaurantID)
}

// Seat marks a party as seated, optionally recording the table they were
// placed at.
func (r *WaitRepo) Seat(ctx context.Context, restaurantID, id uint64, tableID *uint64) error {
	const q = `UPDATE waitlist SET status = 'seated', seated_table_id = ?
	           WHERE id = ? AND restaurant_id = ?`
	var tid any
	if tableID != nil {
		tid = *tableID
	}
	res, err := r.db.ExecContext(ctx, q, tid, id, restaurantID)
	if err != nil {
		return err
	}
	return rowsToNotFound(res)
}

// SetStatus moves an entry to the given status without touching timestamps.
// Used for cancel and no_show.
func (r *WaitRepo) SetStatus(ctx context.Context, restaurantID, id uint64, status model.WaitStatus) error {
	const q = `UPDATE waitlist SET status = ? WHERE id = ? AND restaurant_id = ?`
	return r.execExpectingRow(ctx, q, status, id, restaurantID)
}

// ExpireCalledProc runs the stored procedure that returns stale called
// entries to waiting. Deployments without the procedure get an error; the
// handler falls back to ExpireCalledBefore.
func (r *WaitRepo) ExpireCalledProc(ctx context.Context, restaurantID uint64, minutes int) error {
	_, err := r.db.ExecContext(ctx, `CALL fn_waitlist_expire_called(?, ?)`, restaurantID, minutes)
	return err
}

// ExpireCalledBefore is the direct fallback for ExpireCalledProc: every
// called entry whose called_at is older than the cutoff goes back to
// waiting. The status guard is part of the write. Returns affected rows.
func (r *WaitRepo) ExpireCalledBefore(ctx context.Context, restaurantID uint64, cutoff time.Time) (int64, error) {
	const q = `UPDATE waitlist SET status = 'waiting'
	           WHERE restaurant_id = ? AND status = 'called' AND called_at < ?`
	res, err := r.db.ExecContext(ctx, q, restaurantID, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ConfirmReservation converts an arrived reservation into a plain waiting
// entry and stamps called_at so the party sorts near the front.
func (r *WaitRepo) ConfirmReservation(ctx context.Context, restaurantID, id uint64) error {
	const q = `UPDATE waitlist
	           SET status = 'waiting', is_reservation = FALSE, reservation_time = NULL,
	               called_at = UTC_TIMESTAMP()
	           WHERE id = ? AND restaurant_id = ? AND is_reservation = TRUE`
	return r.execExpectingRow(ctx, q, id, restaurantID)
}

// ListOpen returns entries that still need attention (waiting or called),
// reservations included, oldest first.
func (r *WaitRepo) ListOpen(ctx context.Context, restaurantID uint64) ([]model.WaitEntry, error) {
	const q = `SELECT ` + waitColumns + ` FROM waitlist
	           WHERE restaurant_id = ? AND status IN ('waiting','called')
	           ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitEntry, 0)
	for rows.Next() {
		w, err := scanWait(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *w)
	}
	return entries, rows.Err()
}

func (r *WaitRepo) execExpectingRow(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return rowsToNotFound(res)
}

func rowsToNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWaitNotFound
	}
	return nil
}
