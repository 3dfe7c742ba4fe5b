package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
	"github.com/yerinlee/dinepos/internal/repository"
	"github.com/yerinlee/dinepos/internal/utils"
)

// TableHandler serves the floor-plan surface: seating, clearing and
// cleaning tables, plus issuing the opaque tokens embedded in table QR
// codes. All operations are scoped to the restaurant resolved by the
// tenant middleware.
type TableHandler struct {
	Tables  TableStore
	Tickets TicketStore
	Events  EventPublisher
}

// NewTableHandler constructs a TableHandler. Tables and Tickets must be
// non-nil; Events may be nil when no broker is configured.
func NewTableHandler(tables TableStore, tickets TicketStore, events EventPublisher) *TableHandler {
	if tables == nil || tickets == nil {
		panic("nil store passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables, Tickets: tickets, Events: events}
}

// Board handles GET /v1/tables. It returns every table for the current
// restaurant with its status, for the floor-plan view.
func (h *TableHandler) Board(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	tables, err := h.Tables.List(c.Request().Context(), rid)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// Seat handles POST /v1/tables/:id/seat. It marks the table seated and
// opens a dine-in ticket if the table has no active one.
func (h *TableHandler) Seat(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid table id")
	}
	ctx := c.Request().Context()
	if err := h.Tables.SetStatus(ctx, rid, tableID, model.TableSeated); err != nil {
		return storeError(c, err)
	}
	active, err := h.Tickets.HasActiveByTable(ctx, rid, tableID)
	if err != nil {
		return storeError(c, err)
	}
	var ticket *model.OrderTicket
	if !active {
		ticket, err = h.Tickets.Create(ctx, rid, tableID, model.ChannelDineIn)
		if err != nil {
			return storeError(c, err)
		}
		notify(c, h.Events, queue.ChangeEvent{Kind: queue.TicketChanged, RestaurantID: rid, EntityID: ticket.ID, Status: string(ticket.Status)})
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: rid, EntityID: tableID, Status: string(model.TableSeated)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "ticket": ticket})
}

// MarkEmpty handles POST /v1/tables/mark-empty. It completes any active
// ticket on the table and frees the table in one sweep. The body carries
// {"table_id": n}; a missing id is a validation failure.
func (h *TableHandler) MarkEmpty(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		TableID uint64 `json:"table_id"`
	}
	if err := c.Bind(&req); err != nil || req.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "table_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Tickets.CompleteActiveByTable(ctx, rid, req.TableID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}
	if err := h.Tables.SetStatus(ctx, rid, req.TableID, model.TableEmpty); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: rid, EntityID: req.TableID, Status: string(model.TableEmpty)})
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkClean handles POST /v1/tables/:id/clean. Only a dirty table can be
// cleaned back to empty; anything else is a conflict.
func (h *TableHandler) MarkClean(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid table id")
	}
	cleaned, err := h.Tables.MarkClean(c.Request().Context(), rid, tableID)
	if err != nil {
		return storeError(c, err)
	}
	if !cleaned {
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": "table is not dirty"})
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: rid, EntityID: tableID, Status: string(model.TableEmpty)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// BulkClean handles POST /v1/tables/clean-all. It flips every dirty table
// without an active ticket back to empty and reports how many changed.
func (h *TableHandler) BulkClean(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	n, err := h.Tables.BulkClean(c.Request().Context(), rid)
	if err != nil {
		return storeError(c, err)
	}
	if n > 0 {
		notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: rid, Status: string(model.TableEmpty)})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "cleaned": n})
}

// EnsureToken handles POST /v1/table/token. It returns the table's QR
// token, minting and persisting one first if the table has none. The
// table reference may be a numeric id or a label.
func (h *TableHandler) EnsureToken(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		TableID string `json:"table_id"`
	}
	if err := c.Bind(&req); err != nil || req.TableID == "" {
		return badRequest(c, "table_id is required")
	}
	ctx := c.Request().Context()
	table, err := resolveTable(c, h.Tables, rid, req.TableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "table unresolvable"})
	}
	if table.Token != nil && *table.Token != "" {
		return c.JSON(http.StatusOK, echo.Map{"token": *table.Token})
	}
	token := utils.NewTableToken()
	if err := h.Tables.SetToken(ctx, rid, table.ID, token); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// EnsureAllTokens handles POST /v1/table/token/all. It backfills a token
// for every table that lacks one and reports how many were created.
func (h *TableHandler) EnsureAllTokens(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	ids, err := h.Tables.ListMissingToken(ctx, rid)
	if err != nil {
		return storeError(c, err)
	}
	created := 0
	for _, id := range ids {
		if err := h.Tables.SetToken(ctx, rid, id, utils.NewTableToken()); err != nil {
			logrus.WithError(err).WithField("table_id", id).Warn("token backfill failed for table")
			continue
		}
		created++
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "created": created})
}

// resolveTable finds a table by token, then numeric id, then label. It is
// shared with the order surface, where guests arrive with whichever
// reference their QR code or printed card carries.
func resolveTable(c echo.Context, tables TableStore, restaurantID uint64, ref string) (*model.DiningTable, error) {
	ctx := c.Request().Context()
	if t, err := tables.GetByToken(ctx, restaurantID, ref); err == nil {
		return t, nil
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if t, err := tables.GetByID(ctx, restaurantID, id); err == nil {
			return t, nil
		}
	}
	return tables.GetByLabel(ctx, restaurantID, ref)
}
