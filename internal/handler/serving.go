package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
)

// ServingHandler serves the pass: what is ready to be carried out, and
// the bulk hand-off when a runner takes a whole station's window.
type ServingHandler struct {
	Items  ItemStore
	Queue  QueueStore
	Events EventPublisher
}

// NewServingHandler constructs a ServingHandler. Items and Queue must be
// non-nil; Events may be nil when no broker is configured.
func NewServingHandler(items ItemStore, q QueueStore, events EventPublisher) *ServingHandler {
	if items == nil || q == nil {
		panic("nil store passed to NewServingHandler")
	}
	return &ServingHandler{Items: items, Queue: q, Events: events}
}

// Ready handles GET /v1/serving/:station. It lists the station's done
// items waiting at the pass.
func (h *ServingHandler) Ready(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	station := model.NormalizeStation(c.Param("station"))
	items, err := h.Items.ListByStation(c.Request().Context(), rid, station, []model.ItemStatus{model.ItemDone})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"station": station, "items": items})
}

// BulkServe handles POST /v1/serving/bulk-serve. The body carries the
// station. Every done item at that station is marked served in one
// guarded sweep and the affected ids are returned so the display can
// clear them.
func (h *ServingHandler) BulkServe(c echo.Context) error {
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

	ids, err := h.Items.ListIDsByStation(ctx, rid, station, []model.ItemStatus{model.ItemDone})
	if err != nil {
		return storeError(c, err)
	}
	if len(ids) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"ids": []uint64{}})
	}
	if _, err := h.Items.BulkUpdateStatusGuarded(ctx, rid, ids, model.ItemServed, []model.ItemStatus{model.ItemDone}); err != nil {
		return storeError(c, err)
	}
	if err := h.Queue.BulkUpdateStatusByItemIDs(ctx, rid, ids, model.ItemServed); err != nil {
		logrus.WithError(err).WithField("count", len(ids)).Warn("kitchen queue mirror bulk update failed")
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.ItemChanged, RestaurantID: rid, EntityIDs: ids, Status: string(model.ItemServed), Station: string(station)})
	return c.JSON(http.StatusOK, echo.Map{"ids": ids})
}
