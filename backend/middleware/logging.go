package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/onboard-quest/backend/utils"
)

// LoggingMiddleware writes one access log line per request. Errors are
// rendered through the app error handler first so the logged status is the
// one the client sees.
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := append(requestAttrs(c),
			slog.Int("status", status),
			slog.Duration("took", time.Since(start)),
			slog.Int("bytes", len(c.Response().Body())),
		)
		if query := string(c.Request().URI().QueryString()); query != "" {
			attrs = append(attrs, slog.String("query", query))
		}

		msg := "HTTP request processed"
		if err != nil {
			msg = "HTTP request failed"
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.LogAttrs(c.UserContext(), levelForStatus(status), msg, attrs...)

		return nil
	}
}

// AuditLogMiddleware records who performed an administrative action and
// whether it succeeded.
func AuditLogMiddleware(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		attrs := append(requestAttrs(c),
			slog.String("action", action),
			slog.Bool("success", err == nil && status < fiber.StatusBadRequest),
			slog.Int("status", status),
			slog.Duration("took", time.Since(start)),
		)
		slog.LogAttrs(c.UserContext(), slog.LevelInfo, "Admin action completed", attrs...)

		return err
	}
}

func requestAttrs(c *fiber.Ctx) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("type", "http"),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("ip", utils.GetIPAddress(c)),
		slog.String("user_agent", utils.GetUserAgent(c)),
	}
	if session, ok := utils.ExtractUserSession(c); ok {
		attrs = append(attrs,
			slog.String("user_id", session.UserID),
			slog.String("username", session.Username))
	}
	return attrs
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return slog.LevelError
	case status >= fiber.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
