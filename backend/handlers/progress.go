package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/questforge/onboard-quest/backend/models"
	"github.com/questforge/onboard-quest/backend/utils"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

func GetProgress(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		progress, err := webApp.ProgressService.GetOrCreateProgress(c.UserContext(), userID)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, progress, "")
	}
}

// UpdateProgress records a module, quiz or game completion. A repeated
// module or quiz completion is a success with xpGained 0.
func UpdateProgress(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		var req webmodels.ProgressRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		out, err := webApp.ProgressService.Record(c.UserContext(), userID, req.Update())
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return c.JSON(webmodels.NewProgressResponse(out))
	}
}

func UnlockLocation(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		var req webmodels.LocationRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		out, err := webApp.ProgressService.UnlockLocation(c.UserContext(), userID, req.LocationID)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return c.JSON(webmodels.NewProgressResponse(out))
	}
}

func QuizResults(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		results, err := webApp.AnalyticsService.QuizHistory(c.UserContext(), userID)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, results, "")
	}
}

func UpdateProfile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		var req webmodels.ProfileRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		user, err := webApp.UserService.UpdateProfile(c.UserContext(), userID, req.Update())
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, user, "Profile updated")
	}
}

func ListBadges(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		badges, err := webApp.BadgeService.List(c.UserContext(), userID)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, badges, "")
	}
}

// UnlockBadge records a manually awarded badge, such as one earned in a
// mini game.
func UnlockBadge(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		var req webmodels.BadgeRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		unlock, created, err := webApp.BadgeService.Unlock(c.UserContext(), userID, req.BadgeID)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.BadgeUnlockResponse{
			Badge:           unlock,
			AlreadyUnlocked: !created,
		}, "")
	}
}

func Leaderboard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", services.DefaultLeaderboardLimit)
		if limit < 0 {
			return utils.SendValidationFailed(c, map[string]string{"limit": "must not be negative"})
		}
		entries, err := webApp.LeaderboardService.GetLeaderboard(c.UserContext(), limit)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, entries, "")
	}
}
