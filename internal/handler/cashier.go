package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yerinlee/dinepos/internal/model"
	"github.com/yerinlee/dinepos/internal/queue"
)

// CashierHandler serves settlement: recording a payment against a ticket
// and reviewing a ticket's payments. Settlement is a single transaction
// in the store; it closes the ticket and dirties the table together.
type CashierHandler struct {
	Payments SettlementStore
	Events   EventPublisher
}

// NewCashierHandler constructs a CashierHandler. Payments must be
// non-nil; Events may be nil when no broker is configured.
func NewCashierHandler(payments SettlementStore, events EventPublisher) *CashierHandler {
	if payments == nil {
		panic("nil store passed to NewCashierHandler")
	}
	return &CashierHandler{Payments: payments, Events: events}
}

// Pay handles POST /v1/cashier/pay. The body carries order_id, method
// and amount in minor currency units. On success the ticket is paid and
// closed and its table is dirty, all in one transaction.
func (h *CashierHandler) Pay(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		OrderID uint64 `json:"order_id"`
		Method  string `json:"method"`
		Amount  int64  `json:"amount"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == 0 || req.Method == "" || req.Amount <= 0 {
		return badRequest(c, "order_id, method and a positive amount are required")
	}
	tableID, err := h.Payments.PayOrder(c.Request().Context(), rid, req.OrderID, req.Method, req.Amount)
	if err != nil {
		return storeError(c, err)
	}
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TicketChanged, RestaurantID: rid, EntityID: req.OrderID, Status: string(model.TicketPaid)})
	notify(c, h.Events, queue.ChangeEvent{Kind: queue.TableChanged, RestaurantID: rid, EntityID: tableID, Status: string(model.TableDirty)})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "table_id": tableID})
}

// PaymentsByOrder handles GET /v1/cashier/order/:id/payments.
func (h *CashierHandler) PaymentsByOrder(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	payments, err := h.Payments.ListByOrder(c.Request().Context(), rid, orderID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}
