package middleware

// tenant.go resolves every request to its owning restaurant before any
// handler runs. The tenant is never optional and never inferred from other
// state: a request that cannot be resolved is rejected before any store
// access happens.

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// TenantHeader carries an explicit restaurant ID. It takes precedence over
// the host mapping and is what kiosk devices and tests use.
const TenantHeader = "X-Restaurant-ID"

const tenantContextKey = "restaurant_id"

// ErrTenantMissing is returned by RestaurantID when a handler runs without
// a resolved tenant. This is a configuration error, not a client error:
// routes that reach handlers must be wired behind Tenant().
var ErrTenantMissing = errors.New("restaurant id not resolved for request")

// Tenant returns middleware that resolves the owning restaurant from the
// X-Restaurant-ID header or, failing that, from the request Host via the
// configured domain map. Unresolvable requests are rejected with a 500
// configuration failure; no downstream store access takes place.
func Tenant(hosts map[string]uint64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get(TenantHeader); raw != "" {
				id, err := strconv.ParseUint(raw, 10, 64)
				if err != nil || id == 0 {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid restaurant id header"})
				}
				c.Set(tenantContextKey, id)
				return next(c)
			}

			host := strings.ToLower(c.Request().Host)
			if i := strings.IndexByte(host, ':'); i >= 0 {
				host = host[:i]
			}
			if id, ok := hosts[host]; ok {
				c.Set(tenantContextKey, id)
				return next(c)
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restaurant not configured for host"})
		}
	}
}

// RestaurantID extracts the resolved tenant from the request context.
// Handlers must treat an error here as fatal and must not fall through to
// an unscoped query.
func RestaurantID(c echo.Context) (uint64, error) {
	v := c.Get(tenantContextKey)
	id, ok := v.(uint64)
	if !ok || id == 0 {
		return 0, ErrTenantMissing
	}
	return id, nil
}
