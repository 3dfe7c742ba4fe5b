package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
	"github.com/yerinlee/dinepos/internal/repository"
)

// OrderHandler serves order intake: opening tickets, adding items one at a
// time or as a cart, sending the ticket to the kitchen, and the two
// pre-pickup corrections (remove, change quantity). Routing decisions
// happen here at creation time: a beverage item is born done and never
// touches the kitchen queue, every other item is enqueued at its station.
type OrderHandler struct {
	Tables  TableStore
	Tickets TicketStore
	Menu    MenuStore
	Items   ItemStore
	Queue   QueueStore
	Events  EventPublisher
}

// NewOrderHandler constructs an OrderHandler. All stores must be non-nil;
// Events may be nil when no broker is configured.
func NewOrderHandler(tables TableStore, tickets TicketStore, menu MenuStore, items ItemStore, q QueueStore, events EventPublisher) *OrderHandler {
	if tables == nil || tickets == nil || menu == nil || items == nil || q == nil {
		panic("nil store passed to NewOrderHandler")
	}
	return &OrderHandler{Tables: tables, Tickets: tickets, Menu: menu, Items: items, Queue: q, Events: events}
}

// Open handles POST /v1/order/open. It resolves the table reference and
// returns the table's active ticket, creating both the table (for an
// unknown label) and the ticket as needed. Guests land here after
// scanning a QR code, so the reference may be a token, an id or a label.
func (h *OrderHandler) Open(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		TableID string `json:"table_id"`
		Channel string `json:"channel"`
	}
	if err := c.Bind(&req); err != nil || req.TableID == "" {
		return badRequest(c, "table_id is required")
	}
	channel := model.ChannelQR
	if req.Channel == string(model.ChannelDineIn) {
		channel = model.ChannelDineIn
	}
	ticket, err := h.getOrCreateOpenOrder(c, rid, req.TableID, channel)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "order": ticket})
}

// AddItem handles POST /v1/order/add. The body carries order_id,
// menu_item_id, qty and an optional note. Name and price are snapshotted
// from the menu; the item is enqueued at its station unless it is a
// beverage, which completes immediately.
func (h *OrderHandler) AddItem(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		OrderID    uint64  `json:"order_id"`
		MenuItemID uint64  `json:"menu_item_id"`
		Qty        int     `json:"qty"`
		Note       *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == 0 || req.MenuItemID == 0 || req.Qty <= 0 {
		return badRequest(c, "order_id, menu_item_id and a positive qty are required")
	}
	ctx := c.Request().Context()

	menuItem, err := h.Menu.GetByID(ctx, rid, req.MenuItemID)
	if err != nil {
		return storeError(c, err)
	}
	station := model.NormalizeStation(menuItem.Station)
	status := model.ItemQueued
	if !model.RequiresPrep(station) {
		status = model.ItemDone
	}
	item := &model.OrderItem{
		RestaurantID:  rid,
		OrderID:       req.OrderID,
		MenuItemID:    menuItem.ID,
		NameSnapshot:  menuItem.Name,
		PriceSnapshot: menuItem.Price,
		Qty:           req.Qty,
		Note:          req.Note,
		Status:        status,
	}
	itemID, err := h.Items.Insert(ctx, item)
	if err != nil {
		return storeError(c, err)
	}
	if model.RequiresPrep(station) {
		if err := h.enqueueMissing(c, rid, []model.QueueEntry{{
			RestaurantID: rid,
			OrderItemID:  itemID,
			Station:      string(station),
			Status:       model.ItemQueued,
		}}); err != nil {
			return storeError(c, err)
		}
	}
	if _, err := h.Tickets.TransitionToKitchen(ctx, rid, req.OrderID); err != nil {
		return storeError(c, err)
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.ItemChanged, RestaurantID: rid, EntityID: itemID, Status: string(status), Station: string(station)})
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TicketChanged, RestaurantID: rid, EntityID: req.OrderID, Status: string(model.TicketSentToKitchen)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "item_id": itemID})
}

// AddMulti handles POST /v1/order/multi. It resolves (or creates) the
// table and its open ticket, snapshots every cart line, inserts them as
// one batch, enqueues the preparation lines, and moves the ticket to
// sent_to_kitchen. Any unresolvable menu reference aborts the whole cart
// before anything is written.
func (h *OrderHandler) AddMulti(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		TableID string `json:"table_id"`
		Items   []struct {
			MenuItemID uint64  `json:"menu_item_id"`
			Qty        int     `json:"qty"`
			Note       *string `json:"note"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil || req.TableID == "" {
		return badRequest(c, "table_id is required")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "items must not be empty")
	}
	ctx := c.Request().Context()

	ticket, err := h.getOrCreateOpenOrder(c, rid, req.TableID, model.ChannelQR)
	if err != nil {
		return storeError(c, err)
	}

	menuIDs := make([]uint64, 0, len(req.Items))
	for _, line := range req.Items {
		if line.MenuItemID == 0 || line.Qty <= 0 {
			return badRequest(c, "every item needs menu_item_id and a positive qty")
		}
		menuIDs = append(menuIDs, line.MenuItemID)
	}
	menuByID, err := h.Menu.GetByIDs(ctx, rid, menuIDs)
	if err != nil {
		return storeError(c, err)
	}
	items := make([]*model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		menuItem, ok := menuByID[line.MenuItemID]
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "error": "unknown menu item"})
		}
		status := model.ItemQueued
		if !model.RequiresPrep(model.NormalizeStation(menuItem.Station)) {
			status = model.ItemDone
		}
		items = append(items, &model.OrderItem{
			RestaurantID:  rid,
			OrderID:       ticket.ID,
			MenuItemID:    menuItem.ID,
			NameSnapshot:  menuItem.Name,
			PriceSnapshot: menuItem.Price,
			Qty:           line.Qty,
			Note:          line.Note,
			Status:        status,
		})
	}
	if err := h.Items.InsertBatch(ctx, items); err != nil {
		return storeError(c, err)
	}

	entries := make([]model.QueueEntry, 0, len(items))
	for _, it := range items {
		station := model.NormalizeStation(menuByID[it.MenuItemID].Station)
		if !model.RequiresPrep(station) {
			continue
		}
		entries = append(entries, model.QueueEntry{
			RestaurantID: rid,
			OrderItemID:  it.ID,
			Station:      string(station),
			Status:       model.ItemQueued,
		})
	}
	if err := h.enqueueMissing(c, rid, entries); err != nil {
		return storeError(c, err)
	}
	if _, err := h.Tickets.TransitionToKitchen(ctx, rid, ticket.ID); err != nil {
		return storeError(c, err)
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TicketChanged, RestaurantID: rid, EntityID: ticket.ID, Status: string(model.TicketSentToKitchen)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "result": ticket})
}

// Send handles POST /v1/order/send. It moves an open ticket to
// sent_to_kitchen. A ticket already past open is left untouched and the
// call still succeeds, so resending is harmless.
func (h *OrderHandler) Send(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		OrderID uint64 `json:"order_id"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		return badRequest(c, "order_id is required")
	}
	advanced, err := h.Tickets.TransitionToKitchen(c.Request().Context(), rid, req.OrderID)
	if err != nil {
		return storeError(c, err)
	}
	if advanced {
		notify(c, h.Events, queue.ChangeEvent{Kind: queue.TicketChanged, RestaurantID: rid, EntityID: req.OrderID, Status: string(model.TicketSentToKitchen)})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ListItems handles GET /v1/order/:id/items. It lists every line on a ticket,
// including canceled ones, for the guest and cashier views.
func (h *OrderHandler) ListItems(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	items, err := h.Items.ListByOrder(c.Request().Context(), rid, orderID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// RemoveItem handles DELETE /v1/order/item/:id. Only a still-queued item
// can be removed; once the kitchen has picked it up the correction is a
// cancellation through the kitchen surface, not a deletion.
func (h *OrderHandler) RemoveItem(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid item id")
	}
	removed, err := h.Items.DeleteQueued(c.Request().Context(), rid, itemID)
	if err != nil {
		return storeError(c, err)
	}
	if !removed {
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": "item already picked up"})
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.ItemChanged, RestaurantID: rid, EntityID: itemID, Status: string(model.ItemCanceled)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// UpdateQty handles POST /v1/order/item/:id/qty. Like RemoveItem, it only
// applies while the item is still queued.
func (h *OrderHandler) UpdateQty(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid item id")
	}
	var req struct {
		Qty int `json:"qty"`
	}
	if err := c.Bind(&req); err != nil || req.Qty <= 0 {
		return badRequest(c, "a positive qty is required")
	}
	updated, err := h.Items.UpdateQtyQueued(c.Request().Context(), rid, itemID, req.Qty)
	if err != nil {
		return storeError(c, err)
	}
	if !updated {
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": "item already picked up"})
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.ItemChanged, RestaurantID: rid, EntityID: itemID, Status: string(model.ItemQueued)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// getOrCreateOpenOrder resolves a table reference and returns its active
// ticket. An unknown label becomes a new seated table; a table whose
// latest ticket is closed gets a fresh one. Creating a ticket also marks
// the table seated, so a QR scan on an empty table claims it.
func (h *OrderHandler) getOrCreateOpenOrder(c echo.Context, restaurantID uint64, tableRef string, channel model.Channel) (*model.OrderTicket, error) {
	ctx := c.Request().Context()
	table, err := resolveTable(c, h.Tables, restaurantID, tableRef)
	if errors.Is(err, repository.ErrTableNotFound) {
		tableID, createErr := h.Tables.Create(ctx, restaurantID, tableRef, model.TableSeated)
		if createErr != nil {
			return nil, createErr
		}
		table = &model.DiningTable{ID: tableID, RestaurantID: restaurantID, Label: tableRef, Status: model.TableSeated}
	} else if err != nil {
		return nil, err
	}
	ticket, err := h.Tickets.LatestByTable(ctx, restaurantID, table.ID)
	if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, err
	}
	if err == nil && ticket.Status.Active() {
		return ticket, nil
	}
	ticket, err = h.Tickets.Create(ctx, restaurantID, table.ID, channel)
	if err != nil {
		return nil, err
	}
	if table.Status != model.TableSeated {
		if err := h.Tables.SetStatus(ctx, restaurantID, table.ID, model.TableSeated); err != nil {
			return nil, err
		}
		notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: restaurantID, EntityID: table.ID, Status: string(model.TableSeated)})
	}
	return ticket, nil
}

// enqueueMissing inserts queue entries for the given items, skipping any
// item that already has one. Re-sending a ticket therefore never produces
// duplicate station work.
func (h *OrderHandler) enqueueMissing(c echo.Context, restaurantID uint64, entries []model.QueueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ctx := c.Request().Context()
	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.OrderItemID)
	}
	existing, err := h.Queue.ExistingItemIDs(ctx, restaurantID, ids)
	if err != nil {
		return err
	}
	missing := entries[:0]
	for _, e := range entries {
		if _, ok := existing[e.OrderItemID]; !ok {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return h.Queue.InsertBatch(ctx, missing)
}
