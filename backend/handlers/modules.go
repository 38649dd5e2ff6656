package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/questforge/onboard-quest/backend/models"
	"github.com/questforge/onboard-quest/backend/utils"
)

// ListModules returns the module catalog with any uploaded material.
func ListModules(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		modules, err := webApp.TrainingService.Catalog(c.UserContext())
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, modules, "")
	}
}

// ModuleDetail returns one module. Quiz answers are never serialized.
func ModuleDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		module, err := webApp.TrainingService.ModuleDetail(c.UserContext(), c.Params("id"))
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, module, "")
	}
}

// SubmitQuiz grades the answers and records the attempt like a quiz
// progress event.
func SubmitQuiz(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		var req webmodels.QuizSubmitRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		out, score, err := webApp.ProgressService.SubmitQuiz(c.UserContext(), userID, c.Params("id"), req.Answers)
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		resp := webmodels.NewProgressResponse(out)
		resp.Score = &score
		return c.JSON(resp)
	}
}
