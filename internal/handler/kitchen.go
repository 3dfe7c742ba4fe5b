package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
)

// KitchenHandler serves the station displays: per-station boards, single
// item status moves and the bulk "everything is done" sweep. The order
// item is the source of truth; every write lands there first and the
// kitchen queue entry is updated afterwards, best effort. A failed mirror
// write is logged and ignored so a station display never blocks service.
type KitchenHandler struct {
	Items  ItemStore
	Queue  QueueStore
	Events EventPublisher
}

// NewKitchenHandler constructs a KitchenHandler. Items and Queue must be
// non-nil; Events may be nil when no broker is configured.
func NewKitchenHandler(items ItemStore, q QueueStore, events EventPublisher) *KitchenHandler {
	if items == nil || q == nil {
		panic("nil store passed to NewKitchenHandler")
	}
	return &KitchenHandler{Items: items, Queue: q, Events: events}
}

// Board handles GET /v1/kitchen/:station. It lists the items a station
// still has in front of it, queued and in progress, oldest first.
func (h *KitchenHandler) Board(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	station := model.NormalizeStation(c.Param("station"))
	items, err := h.Items.ListByStation(c.Request().Context(), rid, station, model.ActiveKitchenStatuses())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"station": station, "items": items})
}

// QueueBoard handles GET /v1/kitchen/:station/queue. It lists the raw
// queue entries with their timing stamps, for throughput views.
func (h *KitchenHandler) QueueBoard(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	station := model.NormalizeStation(c.Param("station"))
	entries, err := h.Queue.ListByStation(c.Request().Context(), rid, station, model.ActiveKitchenStatuses())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"station": station, "entries": entries})
}

// SetStatus handles POST /v1/kitchen/item/:id/status. The body carries
// the target status. Only forward moves are accepted; an attempt to
// regress, to leave a terminal status, or to cancel an already started
// item is a conflict. Repeating the same completed move is also a
// conflict rather than a silent success, because a lost race with a
// colleague on the same item should be visible on the display.
func (h *KitchenHandler) SetStatus(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid item id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "status is required")
	}
	next := model.ItemStatus(req.Status)
	if !next.Valid() {
		return badRequest(c, "unknown status")
	}
	ctx := c.Request().Context()

	item, err := h.Items.GetByID(ctx, rid, itemID)
	if err != nil {
		return storeError(c, err)
	}
	if !item.Status.CanTransition(next) {
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": "invalid transition from " + string(item.Status)})
	}
	// Guard on the status we just read so a concurrent move surfaces as
	// zero matched rows instead of overwriting it.
	n, err := h.Items.UpdateStatusGuarded(ctx, rid, itemID, next, []model.ItemStatus{item.Status})
	if err != nil {
		return storeError(c, err)
	}
	if n == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": "item changed concurrently"})
	}
	h.mirrorOne(c, rid, itemID, next)
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.ItemChanged, RestaurantID: rid, EntityID: itemID, Status: string(next)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// BulkDone handles POST /v1/kitchen/bulk-done. The body carries the
// station. Every item the station still has queued or in progress is
// marked done in one guarded sweep; items another operator advanced
// between scan and write are simply left out.
func (h *KitchenHandler) BulkDone(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		Station string `json:"station"`
	}
	if err := c.Bind(&req); err != nil || req.Station == "" {
		return badRequest(c, "station is required")
	}
	station := model.NormalizeStation(req.Station)
	ctx := c.Request().Context()

	ids, err := h.Items.ListIDsByStation(ctx, rid, station, model.ActiveKitchenStatuses())
	if err != nil {
		return storeError(c, err)
	}
	if len(ids) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "ids": []uint64{}})
	}
	if _, err := h.Items.BulkUpdateStatusGuarded(ctx, rid, ids, model.ItemDone, model.ActiveKitchenStatuses()); err != nil {
		return storeError(c, err)
	}
	h.mirrorBulk(c, rid, ids, model.ItemDone)
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.ItemChanged, RestaurantID: rid, EntityIDs: ids, Status: string(model.ItemDone), Station: string(station)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "ids": ids})
}

func (h *KitchenHandler) mirrorOne(c echo.Context, restaurantID, itemID uint64, status model.ItemStatus) {
	if err := h.Queue.UpdateStatusByItemID(c.Request().Context(), restaurantID, itemID, status); err != nil {
		logrus.WithError(err).WithField("order_item_id", itemID).Warn("kitchen queue mirror update failed")
	}
}

func (h *KitchenHandler) mirrorBulk(c echo.Context, restaurantID uint64, itemIDs []uint64, status model.ItemStatus) {
	if err := h.Queue.BulkUpdateStatusByItemIDs(c.Request().Context(), restaurantID, itemIDs, status); err != nil {
		logrus.WithError(err).WithField("count", len(itemIDs)).Warn("kitchen queue mirror bulk update failed")
	}
}
