package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/metrics"
)

// RequestLogger logs one structured line per request and feeds the HTTP
// metrics.  It must run after the request-id middleware.
func RequestLogger(m *metrics.Metrics) echo.MiddlewareFunc {
	log := slog.Default().With("module", "http", "layer", "adapter")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			m.RecordRequest(c.Request().Method, route, status, elapsed.Seconds())

			outcome := "success"
			if status >= 400 {
				outcome = "failure"
			}
			fields := []any{
				"operation", "http_request",
				"outcome", outcome,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route", route,
				"status_code", status,
				"bytes", c.Response().Size,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"user_id", userID(c),
			}
			ctx := c.Request().Context()
			switch {
			case status >= 500:
				log.ErrorContext(ctx, "http request completed", fields...)
			case status >= 400:
				log.WarnContext(ctx, "http request completed", fields...)
			default:
				log.InfoContext(ctx, "http request completed", fields...)
			}
			return nil
		}
	}
}
