package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/questforge/onboard-quest/backend/config"
	webmodels "github.com/questforge/onboard-quest/backend/models"
	webservices "github.com/questforge/onboard-quest/backend/services"
	"github.com/questforge/onboard-quest/backend/utils"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

const healthTimeout = 3 * time.Second

// HealthChecker is satisfied by database.DB.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config             *config.WebAppConfig
	DB                 HealthChecker
	UserService        *services.UserService
	ProgressService    *services.ProgressService
	BadgeService       *services.BadgeService
	LeaderboardService *services.LeaderboardService
	TrainingService    *services.TrainingService
	AnalyticsService   *services.AnalyticsService
	SessionService     *webservices.SessionService
	Version            string
	Commit             string
}

// GetSession gets the current user session
func (w *WebApp) GetSession(c *fiber.Ctx) (*webmodels.UserSession, error) {
	return w.SessionService.GetSession(c)
}

// currentUserID returns the authenticated user id placed in the request
// context by middleware.AuthRequired.
func currentUserID(c *fiber.Ctx) (string, error) {
	return services.UserIDFromContext(c.UserContext())
}

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version)

		if webApp.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			defer cancel()

			start := time.Now()
			if err := webApp.DB.Ping(ctx); err != nil {
				health.AddComponent("database", "unhealthy", err.Error(), nil)
			} else {
				health.AddComponent("database", "healthy", "", map[string]any{
					"latency_ms": time.Since(start).Milliseconds(),
				})
			}
		}

		if !health.Healthy() {
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, webmodels.NewSuccessResponse(health, "Health check failed"))
		}
		return utils.SendSuccess(c, health, "Health check successful")
	}
}
