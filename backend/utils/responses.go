package utils

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/onboard-quest/backend/models"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data any, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusOK, response)
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data any, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusCreated, response)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

// SendValidationFailed sends a 400 with one message per field
func SendValidationFailed(c *fiber.Ctx, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, models.CodeValidationFailed, "Validation failed", details)
}

// SendUnauthorized sends an unauthorized error response
func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, models.CodeUnauthenticated, message, nil)
}

// SendForbidden sends a forbidden error response
func SendForbidden(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusForbidden, models.CodeForbidden, message, nil)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, models.CodeNotFound, message, nil)
}

// SendServiceError maps a service error onto its status code. Anything
// outside the service taxonomy is logged and reported as a 500.
func SendServiceError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return SendValidationFailed(c, ve.Fields)
	case errors.Is(err, services.ErrUnauthenticated):
		return SendUnauthorized(c, "Authentication required")
	case errors.Is(err, services.ErrInvalidCredentials):
		return SendError(c, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid username or password", nil)
	case errors.Is(err, services.ErrForbidden):
		return SendForbidden(c, "Insufficient permissions")
	case errors.Is(err, services.ErrNotFound):
		return SendNotFound(c, notFoundMessage(err))
	case errors.Is(err, services.ErrStorageUnavailable), errors.Is(err, context.DeadlineExceeded):
		slog.Error("Storage unavailable",
			slog.String("type", "http"),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return SendError(c, http.StatusServiceUnavailable, models.CodeStorageUnavailable, "Storage is temporarily unavailable", nil)
	default:
		slog.Error("Unhandled service error",
			slog.String("type", "http"),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return SendError(c, http.StatusInternalServerError, models.CodeInternal, "Internal Server Error", nil)
	}
}

// notFoundMessage keeps the leading "<entity> <id>" part of a wrapped
// not-found error.
func notFoundMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "+services.ErrNotFound.Error()); idx > 0 {
		return msg[:idx] + " not found"
	}
	return "Not found"
}

// ExtractUserSession extracts user session from Fiber context
func ExtractUserSession(c *fiber.Ctx) (*models.UserSession, bool) {
	session := c.Locals("user")
	if session == nil {
		return nil, false
	}

	userSession, ok := session.(*models.UserSession)
	return userSession, ok
}

// GetIPAddress returns the client IP. Forwarding headers are honoured only
// from the proxies listed in the fiber config.
func GetIPAddress(c *fiber.Ctx) string {
	return c.IP()
}

// GetUserAgent extracts the user agent
func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
