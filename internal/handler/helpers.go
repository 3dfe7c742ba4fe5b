package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yerinlee/dinepos/internal/middleware"
	"github.com/yerinlee/dinepos/internal/queue"
	"github.com/yerinlee/dinepos/internal/repository"
)

// tenant resolves the restaurant scope set by the tenant middleware.
// A missing scope is a deployment configuration error, not client input.
func tenant(c echo.Context) (uint64, error) {
	id, err := middleware.RestaurantID(c)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusInternalServerError, "restaurant not configured for this host")
	}
	return id, nil
}

// storeError maps repository errors onto HTTP responses.
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrMenuItemNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrWaitNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "error": err.Error()})
	case errors.Is(err, repository.ErrInvalidTransition),
		errors.Is(err, repository.ErrMenuItemInUse):
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "database error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": msg})
}

// notify publishes a change event best-effort. The publisher logs its own
// failures; the request outcome never depends on the broker.
func notify(c echo.Context, pub EventPublisher, event queue.ChangeEvent) {
	if pub == nil {
		return
	}
	event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	_ = pub.Publish(ctx, event)
}
