package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cydea/vulnbank/internal/api/metrics"
	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
	"github.com/cydea/vulnbank/internal/ratelimit"
)

// RateLimit gates every route on the client IP's token bucket. It sits ahead
// of authentication so unauthenticated endpoints are covered too. When the
// store itself fails (e.g. Redis down) the request is allowed through: the
// limiter protects the service, it is not the service.
func RateLimit(store ratelimit.Store, audit ports.AuditSink, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			ok, err := store.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("remote_ip", ip).Msg("rate limit store unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.Inc()
				if audit != nil {
					audit.Record(domain.SecurityEvent{
						Kind:      domain.EventRateLimited,
						Subject:   ip,
						ClientIP:  ip,
						Detail:    c.Request().Method + " " + c.Path(),
						Timestamp: time.Now().UTC(),
					})
				}
				return c.String(http.StatusTooManyRequests, "Too Many Requests")
			}
			return next(c)
		}
	}
}
