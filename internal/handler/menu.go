package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yerinlee/dinepos/internal/model"
)

// MenuHandler serves menu administration for managers: listing the full
// menu, creating and editing items, toggling availability and deleting
// items that were never ordered. Price and name changes never rewrite the
// snapshots on existing order items.
type MenuHandler struct {
	Menu MenuAdminStore
}

// NewMenuHandler constructs a MenuHandler. Menu must be non-nil.
func NewMenuHandler(menu MenuAdminStore) *MenuHandler {
	if menu == nil {
		panic("nil store passed to NewMenuHandler")
	}
	return &MenuHandler{Menu: menu}
}

// List handles GET /v1/menu. Sold-out items are included so the manager
// can turn them back on.
func (h *MenuHandler) List(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	items, err := h.Menu.List(c.Request().Context(), rid)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "items": items})
}

// Upsert handles POST /v1/menu. A zero or absent id creates the item;
// otherwise the named item is updated in place. is_available defaults to
// true on create and is preserved as sent on update.
func (h *MenuHandler) Upsert(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	var req struct {
		ID          uint64 `json:"id"`
		Name        string `json:"name"`
		Price       int64  `json:"price"`
		Station     string `json:"station"`
		IsAvailable *bool  `json:"is_available"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Price < 0 {
		return badRequest(c, "name and a non-negative price are required")
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	item := &model.MenuItem{
		ID:           req.ID,
		RestaurantID: rid,
		Name:         req.Name,
		Price:        req.Price,
		Station:      req.Station,
		IsAvailable:  available,
	}
	id, err := h.Menu.Upsert(c.Request().Context(), item)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "id": id})
}

// SetAvailability handles POST /v1/menu/:id/availability with a body of
// {"available": bool}. Sold-out toggles land here.
func (h *MenuHandler) SetAvailability(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid menu item id")
	}
	var req struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "available is required")
	}
	if err := h.Menu.SetAvailability(c.Request().Context(), rid, id, req.Available); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Delete handles DELETE /v1/menu/:id. An item any order references cannot
// be deleted and comes back as a conflict.
func (h *MenuHandler) Delete(c echo.Context) error {
	rid, err := tenant(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid menu item id")
	}
	if err := h.Menu.Delete(c.Request().Context(), rid, id); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
