package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/yerinlee/dinepos/internal/config"
	"github.com/yerinlee/dinepos/internal/handler"
	"github.com/yerinlee/dinepos/internal/middleware"
)

// Handlers bundles the handler set the routers need. Every field must be
// populated before registration.
type Handlers struct {
	Table    *handler.TableHandler
	Order    *handler.OrderHandler
	Kitchen  *handler.KitchenHandler
	Serving  *handler.ServingHandler
	Cashier  *handler.CashierHandler
	Menu     *handler.MenuHandler
	Waitlist *handler.WaitlistHandler
}

// RegisterRoutes registers routes that need neither tenant scope nor
// authentication. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterGuest registers the tenant-scoped endpoints a guest reaches
// from the table QR page. No login is involved; the table token inside
// the payload is the guest's capability.
func RegisterGuest(e *echo.Echo, h Handlers, tenants map[string]uint64) {
	g := e.Group("/v1", middleware.Tenant(tenants))
	g.POST("/order/open", h.Order.Open)
	g.POST("/order/add", h.Order.AddItem)
	g.POST("/order/multi", h.Order.AddMulti)
	g.GET("/order/:id/items", h.Order.ListItems)
}

// RegisterStaff registers the staff surfaces. Everything here sits behind
// the tenant middleware and a valid staff JWT; board reads additionally
// pass through the short-lived Redis cache.
func RegisterStaff(e *echo.Echo, h Handlers, tenants map[string]uint64, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig) {
	s := e.Group("/v1", middleware.Tenant(tenants), middleware.StaffAuth(jwtSecret))
	boards := middleware.BoardCache(rdb, cacheCfg)

	// floor plan
	s.GET("/tables", h.Table.Board, boards)
	s.POST("/tables/:id/seat", h.Table.Seat)
	s.POST("/tables/mark-empty", h.Table.MarkEmpty)
	s.POST("/tables/:id/clean", h.Table.MarkClean)
	s.POST("/tables/clean-all", h.Table.BulkClean)
	s.POST("/table/token", h.Table.EnsureToken)
	s.POST("/table/token/all", h.Table.EnsureAllTokens)

	// order corrections and resend
	s.POST("/order/send", h.Order.Send)
	s.DELETE("/order/item/:id", h.Order.RemoveItem)
	s.POST("/order/item/:id/qty", h.Order.UpdateQty)

	// kitchen stations
	s.GET("/kitchen/:station", h.Kitchen.Board, boards)
	s.GET("/kitchen/:station/queue", h.Kitchen.QueueBoard, boards)
	s.POST("/kitchen/item/:id/status", h.Kitchen.SetStatus)
	s.POST("/kitchen/bulk-done", h.Kitchen.BulkDone)

	// the pass
	s.GET("/serving/:station", h.Serving.Ready, boards)
	s.POST("/serving/bulk-serve", h.Serving.BulkServe)

	// settlement, manager role only
	cashier := s.Group("/cashier", middleware.RequireRole("manager", "cashier"))
	cashier.POST("/pay", h.Cashier.Pay)
	cashier.GET("/order/:id/payments", h.Cashier.PaymentsByOrder)

	// menu administration, manager role only
	menu := s.Group("/menu", middleware.RequireRole("manager"))
	menu.GET("", h.Menu.List)
	menu.POST("", h.Menu.Upsert)
	menu.POST("/:id/availability", h.Menu.SetAvailability)
	menu.DELETE("/:id", h.Menu.Delete)

	// host stand
	s.GET("/waitlist", h.Waitlist.List, boards)
	s.POST("/waitlist", h.Waitlist.Add)
	s.POST("/waitlist/:id/call", h.Waitlist.Call)
	s.POST("/waitlist/:id/seat", h.Waitlist.SeatParty)
	s.POST("/waitlist/:id/cancel", h.Waitlist.Cancel)
	s.POST("/waitlist/:id/no-show", h.Waitlist.NoShow)
	s.POST("/waitlist/expire", h.Waitlist.Expire)
	s.POST("/reservations", h.Waitlist.AddReservation)
	s.POST("/reservations/:id/confirm", h.Waitlist.ConfirmReservation)
	s.POST("/reservations/:id/cancel", h.Waitlist.CancelReservation)
}
