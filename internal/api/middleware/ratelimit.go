package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/api/metrics"
)

// Limiter counts requests per client within a scope.
type Limiter interface {
	Allow(ctx context.Context, scope, client string, limit int) (bool, error)
}

// RateLimit rejects a client's requests beyond limit per minute within scope.
// A nil limiter disables the check. Limiter failures let the request through.
func RateLimit(limiter Limiter, scope string, limit int, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), scope, c.RealIP(), limit)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"detail": fmt.Sprintf("Rate limit exceeded: %d per 1 minute", limit),
				})
			}
			return next(c)
		}
	}
}
