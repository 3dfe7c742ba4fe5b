package middleware

// cache.go caches GET board responses (kitchen, serving, tables) in Redis
// for a short TTL. Boards are read far more often than they change and the
// UI already treats them as eventually consistent, so serving a few-second
// old snapshot is acceptable. The cache key always includes the tenant:
// boards of different restaurants must never bleed into each other.

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/yerinlee/dinepos/internal/config"
)

// captureWriter captures the response body/status while forwarding to the
// client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

func boardCacheKey(prefix string, tenantID uint64, c echo.Context) string {
	tail := strconv.FormatUint(tenantID, 10) + ":" + c.Path() + "?" + c.Request().URL.RawQuery
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// BoardCache returns middleware that serves cached JSON for successful GET
// responses. A nil Redis client or disabled config turns it into a no-op,
// so the server degrades to uncached reads when Redis is unavailable.
func BoardCache(rdb *redis.Client, cfg config.CacheConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || !cfg.Enabled || c.Request().Method != http.MethodGet {
				return next(c)
			}
			tenantID, err := RestaurantID(c)
			if err != nil {
				return next(c)
			}

			key := boardCacheKey(cfg.Prefix, tenantID, c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 200*time.Millisecond)
			defer cancel()
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				// Best effort; a failed SET only means the next read misses.
				storeCtx, storeCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				defer storeCancel()
				_ = rdb.Set(storeCtx, key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
