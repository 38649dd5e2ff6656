package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/onboard-quest/backend/handlers"
	"github.com/questforge/onboard-quest/backend/utils"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

// AuthRequired middleware ensures the user is authenticated. The session is
// stored in Locals("user") and its user id in the request context.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session",
				slog.String("type", "http"),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}

		c.Locals("user", session)
		c.SetUserContext(services.WithUserID(c.UserContext(), session.UserID))

		slog.Debug("Auth middleware: user authenticated",
			slog.String("type", "http"),
			slog.String("user_id", session.UserID),
			slog.String("username", session.Username))

		return c.Next()
	}
}

// AdminRequired middleware ensures the user has admin privileges
func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin)
}

// RoleRequired middleware ensures the user has one of roles. Admins always
// pass. Must run after AuthRequired.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		if !session.HasRole(roles...) {
			slog.Warn("Role required: user lacks required role",
				slog.String("type", "http"),
				slog.String("user_id", session.UserID),
				slog.String("username", session.Username),
				slog.Any("required_roles", roles),
				slog.String("user_role", session.Role))
			return utils.SendForbidden(c, "Insufficient permissions")
		}

		return c.Next()
	}
}
