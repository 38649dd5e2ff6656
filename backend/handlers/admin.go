package handlers

import (
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/questforge/onboard-quest/backend/models"
	"github.com/questforge/onboard-quest/backend/utils"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

func AdminListModules(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		modules, err := webApp.TrainingService.List(c.UserContext())
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, modules, "")
	}
}

// UploadModule accepts a multipart form with the module texts and optional
// presentation and infographic files.
func UploadModule(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		var req webmodels.TrainingUploadRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		maxSize := int64(webApp.Config.UploadLimitBytes())
		in := services.UploadInput{
			ModuleID:   c.Params("id"),
			Name:       req.Name,
			Title:      req.Title,
			Duration:   req.Duration,
			UploadedBy: session.Username,
		}

		var closers []multipart.File
		defer func() {
			for _, f := range closers {
				f.Close()
			}
		}()

		for _, field := range []string{"presentation", "infographic"} {
			fh, err := c.FormFile(field)
			if err != nil {
				// fasthttp reports a missing part as an error
				continue
			}
			if err := utils.ValidateUploadFile(field, fh, maxSize); err != nil {
				return utils.SendServiceError(c, err)
			}
			file, err := fh.Open()
			if err != nil {
				return utils.SendServiceError(c, fmt.Errorf("open %s: %w", field, err))
			}
			closers = append(closers, file)

			input := &services.FileInput{
				Filename:    utils.SanitizeFilename(fh.Filename),
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        file,
			}
			if field == "presentation" {
				in.Presentation = input
			} else {
				in.Infographic = input
			}
		}

		module, err := webApp.TrainingService.Upload(c.UserContext(), in)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		slog.Info("Training material uploaded",
			slog.String("type", "http"),
			slog.String("module_id", module.ModuleID),
			slog.String("username", session.Username))
		return utils.SendSuccess(c, module, "Module uploaded")
	}
}
