package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brettbedarf/editorfs/internal/util"
)

// RequestLogger returns an echo middleware that logs each request
func RequestLogger() echo.MiddlewareFunc {
	logger := util.GetLogger("HTTP")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			ev := logger.Info()
			if res.Status >= 500 {
				ev = logger.Error().Err(err)
			}
			ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("ip", c.RealIP()).
				Int64("bytes_out", res.Size).
				Msg("Request")
			return nil
		}
	}
}
