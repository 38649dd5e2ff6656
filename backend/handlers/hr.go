package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/questforge/onboard-quest/backend/utils"
)

func Analytics(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		overview, err := webApp.AnalyticsService.Overview(c.UserContext())
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, overview, "")
	}
}

// Employees lists employees with their progress. ?q= fuzzy matches
// username and name, ?department= narrows to one department.
func Employees(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		employees, err := webApp.AnalyticsService.SearchEmployees(c.UserContext(), c.Query("q"), c.Query("department"))
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, employees, "")
	}
}
