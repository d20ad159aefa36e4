package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/pkg/kv"
)

type RateLimitMiddleware struct {
	store  kv.Store
	limit  int64
	window time.Duration
}

func NewRateLimitMiddleware(store kv.Store, limit int64, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// RateLimit counts requests per client IP and path in fixed windows. When the
// store is unreachable requests are allowed through.
func (m *RateLimitMiddleware) RateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", c.IP(), c.Path())

		n, err := m.store.Incr(c.Context(), key, m.window)
		if err != nil {
			slog.Info(err.Error())
			return c.Next()
		}

		if n > m.limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}

		return c.Next()
	}
}
