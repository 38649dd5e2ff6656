package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	webmodels "github.com/questforge/onboard-quest/backend/models"
	"github.com/questforge/onboard-quest/backend/utils"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

func Register(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.RegisterRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		user, progress, err := webApp.UserService.Register(c.UserContext(), req.Input())
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		token, err := webApp.SessionService.CreateSession(c, webmodels.NewUserSession(user, webApp.Config.SessionTTL()))
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendCreated(c, webmodels.AuthResponse{
			User:      user,
			Progress:  progress,
			LevelInfo: webApp.ProgressService.Summarize(progress),
			Token:     token,
		}, "Registration successful")
	}
}

func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.LoginRequest
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendServiceError(c, err)
		}

		user, progress, err := webApp.UserService.Authenticate(c.UserContext(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				slog.Warn("Login failed",
					slog.String("type", "http"),
					slog.String("username", req.Username),
					slog.String("ip", utils.GetIPAddress(c)))
			}
			return utils.SendServiceError(c, err)
		}

		token, err := webApp.SessionService.CreateSession(c, webmodels.NewUserSession(user, webApp.Config.SessionTTL()))
		if err != nil {
			return utils.SendServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.AuthResponse{
			User:      user,
			Progress:  progress,
			LevelInfo: webApp.ProgressService.Summarize(progress),
			Token:     token,
		}, "Login successful")
	}
}

func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.SessionService.DestroySession(c)
		return utils.SendSuccess(c, nil, "Logged out successfully")
	}
}

// Me loads the user, progress and badges concurrently. Sessions past half
// their lifetime are refreshed.
func Me(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return utils.SendServiceError(c, err)
		}

		var (
			user     *models.User
			progress *models.Progress
			badges   []services.UnlockedBadge
		)
		g, ctx := errgroup.WithContext(c.UserContext())
		g.Go(func() error {
			var err error
			user, err = webApp.UserService.GetByID(ctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			progress, err = webApp.ProgressService.GetOrCreateProgress(ctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			badges, err = webApp.BadgeService.List(ctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return utils.SendServiceError(c, err)
		}

		if session, ok := utils.ExtractUserSession(c); ok {
			if time.Until(session.ExpiresAt) < webApp.Config.SessionTTL()/2 {
				if _, err := webApp.SessionService.RefreshSession(c, session); err != nil {
					slog.Warn("Session refresh failed",
						slog.String("type", "http"),
						slog.String("user_id", userID),
						slog.Any("error", err))
				}
			}
		}

		return utils.SendSuccess(c, webmodels.AuthResponse{
			User:      user,
			Progress:  progress,
			LevelInfo: webApp.ProgressService.Summarize(progress),
			Badges:    badges,
		}, "")
	}
}
