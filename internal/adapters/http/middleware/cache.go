package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CacheControl lets shared caches keep successful GET responses for maxAge
func CacheControl(maxAge time.Duration) fiber.Handler {
	return cacheOnSuccess("public", maxAge)
}

// PrivateCacheHeaders is CacheControl for per-user payloads
func PrivateCacheHeaders(maxAge time.Duration) fiber.Handler {
	return cacheOnSuccess("private", maxAge)
}

// NoCacheHeaders marks every response as uncacheable
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}

// cacheOnSuccess sets the header after the handler ran; errors keep
// whatever an outer middleware set
func cacheOnSuccess(scope string, maxAge time.Duration) fiber.Handler {
	value := fmt.Sprintf("%s, max-age=%d", scope, int(maxAge/time.Second))
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return err
	}
}
