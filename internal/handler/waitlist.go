package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
)

// WaitlistHandler serves the host stand: walk-in waitlist entries,
// reservations (which live in the same table until confirmed), calling
// parties and expiring calls that were never answered.
type WaitlistHandler struct {
	Waits  WaitStore
	Tables TableStore
	Events EventPublisher
}

// NewWaitlistHandler constructs a WaitlistHandler. Waits and Tables must
// be non-nil; Events may be nil when no broker is configured.
func NewWaitlistHandler(waits WaitStore, tables TableStore, events EventPublisher) *WaitlistHandler {
	if waits == nil || tables == nil {
		panic("nil store passed to NewWaitlistHandler")
	}
	return &WaitlistHandler{Waits: waits, Tables: tables, Events: events}
}

// List handles GET /v1/waitlist. It returns entries still in play:
// waiting, called and upcoming reservations.
func (h *WaitlistHandler) List(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	entries, err := h.Waits.ListOpen(c.Request().Context(), rid)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// Add handles POST /v1/waitlist. The body carries name, size and
// optional phone and note.
func (h *WaitlistHandler) Add(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		Name  string  `json:"name"`
		Size  int     `json:"size"`
		Phone *string `json:"phone"`
		Note  *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Size <= 0 {
		return badRequest(c, "name and a positive size are required")
	}
	entry, err := h.Waits.Insert(c.Request().Context(), &model.WaitEntry{
		RestaurantID: rid,
		Name:         req.Name,
		Size:         req.Size,
		Phone:        req.Phone,
		Note:         req.Note,
		Status:       model.WaitWaiting,
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "entry": entry})
}

// Call handles POST /v1/waitlist/:id/call. It marks the party called and
// stamps called_at, which starts the expiry clock.
func (h *WaitlistHandler) Call(c echo.Context) error {
	rid, id, err := h.waitID(c)
	if err != nil {
		return err
	}
	if err := h.Waits.Call(c.Request().Context(), rid, id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// SeatParty handles POST /v1/waitlist/:id/seat. An optional table_id in
// the body also marks that table seated.
func (h *WaitlistHandler) SeatParty(c echo.Context) error {
	rid, id, err := h.waitID(c)
	if err != nil {
		return err
	}
	var req struct {
		TableID *uint64 `json:"table_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()
	if req.TableID != nil {
		if err := h.Tables.SetStatus(ctx, rid, *req.TableID, model.TableSeated); err != nil {
			return storeError(c, err)
		}
		notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: rid, EntityID: *req.TableID, Status: string(model.TableSeated)})
	}
	if err := h.Waits.Seat(ctx, rid, id, req.TableID); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Cancel handles POST /v1/waitlist/:id/cancel.
func (h *WaitlistHandler) Cancel(c echo.Context) error {
	return h.setStatus(c, model.WaitCanceled)
}

// NoShow handles POST /v1/waitlist/:id/no-show.
func (h *WaitlistHandler) NoShow(c echo.Context) error {
	return h.setStatus(c, model.WaitNoShow)
}

// Expire handles POST /v1/waitlist/expire. Parties called longer ago
// than the given minutes (default 5) drop back to waiting. The stored
// procedure does the sweep; if it is missing, a plain guarded update
// covers the same ground.
func (h *WaitlistHandler) Expire(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Minutes <= 0 {
		req.Minutes = 5
	}
	ctx := c.Request().Context()
	if err := h.Waits.ExpireCalledProc(ctx, rid, req.Minutes); err != nil {
		logrus.WithError(err).Warn("waitlist expire procedure failed, falling back to direct update")
		cutoff := time.Now().UTC().Add(-time.Duration(req.Minutes) * time.Minute)
		if _, err := h.Waits.ExpireCalledBefore(ctx, rid, cutoff); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AddReservation handles POST /v1/reservations. Reservations share the
// waitlist table; until confirmed they carry their own time, duration,
// special request and deposit.
func (h *WaitlistHandler) AddReservation(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		Name            string    `json:"name"`
		Size            int       `json:"size"`
		Phone           *string   `json:"phone"`
		ReservationTime time.Time `json:"reservation_time"`
		DurationMinutes int       `json:"duration_minutes"`
		SpecialRequest  *string   `json:"special_request"`
		DepositAmount   int64     `json:"deposit_amount"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Size <= 0 || req.ReservationTime.IsZero() {
		return badRequest(c, "name, a positive size and reservation_time are required")
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 90
	}
	rt := req.ReservationTime.UTC()
	entry, err := h.Waits.Insert(c.Request().Context(), &model.WaitEntry{
		RestaurantID:        rid,
		Name:                req.Name,
		Size:                req.Size,
		Phone:               req.Phone,
		Status:              model.WaitWaiting,
		IsReservation:       true,
		ReservationTime:     &rt,
		ReservationDuration: req.DurationMinutes,
		SpecialRequest:      req.SpecialRequest,
		DepositAmount:       req.DepositAmount,
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "entry": entry})
}

// ConfirmReservation handles POST /v1/reservations/:id/confirm. The
// party has arrived; the row becomes a plain waiting entry.
func (h *WaitlistHandler) ConfirmReservation(c echo.Context) error {
	rid, id, err := h.waitID(c)
	if err != nil {
		return err
	}
	if err := h.Waits.ConfirmReservation(c.Request().Context(), rid, id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// CancelReservation handles POST /v1/reservations/:id/cancel.
func (h *WaitlistHandler) CancelReservation(c echo.Context) error {
	return h.setStatus(c, model.WaitCanceled)
}

func (h *WaitlistHandler) setStatus(c echo.Context, status model.WaitStatus) error {
	rid, id, err := h.waitID(c)
	if err != nil {
		return err
	}
	if err := h.Waits.SetStatus(c.Request().Context(), rid, id, status); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *WaitlistHandler) waitID(c echo.Context) (uint64, uint64, error) {
	rid, err := tenant(c)
	if err != nil {
		return 0, 0, err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, badRequest(c, "invalid waitlist id")
	}
	return rid, id, nil
}
