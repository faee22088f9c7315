package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger logs one structured line per request with its request_id, method,
// path, status and latency in milliseconds. A trace_id is added when the
// request carries a valid span context.
func Logger(l zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000)
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.IsValid() {
			ev.Str("trace_id", sc.TraceID().String())
		}
		ev.Msg("request")

		return err
	}
}

// LoggerWithWriter is Logger writing JSON lines to w.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return Logger(zerolog.New(w).With().Timestamp().Logger())
}
