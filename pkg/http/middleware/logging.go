package middleware

import (
	"time"

	applogger "AgroPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request: server errors at error level, client errors at
// info, everything else at debug.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("route", c.Path()),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", status),
				applogger.Duration("duration_ms", time.Since(start)),
			}
			if commodity := c.Param("commodity"); commodity != "" {
				fields = append(fields, applogger.String("commodity", commodity))
			}

			switch {
			case status >= 500:
				l.Error("http request", fields...)
			case status >= 400:
				l.Info("http request", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}
