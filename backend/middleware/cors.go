package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/onboard-quest/backend/models"
)

// CustomErrorHandler handles errors returned from handlers and fiber itself
// (unknown routes, body limit, panics caught by recover).
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	apiCode := models.CodeInternal
	switch code {
	case fiber.StatusNotFound:
		apiCode = models.CodeNotFound
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		apiCode = models.CodeValidationFailed
	case fiber.StatusUnauthorized:
		apiCode = models.CodeUnauthenticated
	case fiber.StatusForbidden:
		apiCode = models.CodeForbidden
	case fiber.StatusTooManyRequests:
		apiCode = models.CodeRateLimitExceeded
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}

	return c.Status(code).JSON(models.NewErrorResponse(apiCode, message, nil))
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		return c.Next()
	}
}
