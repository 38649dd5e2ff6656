package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/questforge/onboard-quest/backend/config"
	"github.com/questforge/onboard-quest/backend/handlers"
	"github.com/questforge/onboard-quest/backend/middleware"
	webmodels "github.com/questforge/onboard-quest/backend/models"
	webservices "github.com/questforge/onboard-quest/backend/services"
	"github.com/questforge/onboard-quest/onboardquest"
	"github.com/questforge/onboard-quest/onboardquest/content"
	"github.com/questforge/onboard-quest/onboardquest/database"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
	"github.com/questforge/onboard-quest/onboardquest/progression"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

const shutdownTimeout = 15 * time.Second

// NewWebApp builds the repositories and services on top of an open
// database connection.
func NewWebApp(ctx context.Context, cfg *onboardquest.Config, db *database.DB, version, commit string) (*handlers.WebApp, error) {
	timeout := cfg.DB.Timeout.Duration
	bunDB := db.BunDB()

	repos := webmodels.NewRepositories(
		repositories.NewUserRepository(bunDB, timeout),
		repositories.NewProgressRepository(bunDB, timeout, cfg.Progress.XPPerLevel),
		repositories.NewQuizResultRepository(bunDB, timeout),
		repositories.NewBadgeRepository(bunDB, timeout),
		repositories.NewTrainingModuleRepository(bunDB, timeout),
	)

	catalog, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load content catalog: %w", err)
	}

	store, err := newFileStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var notifier services.Notifier
	if cfg.Mail.SendgridKey != "" {
		notifier = services.NewSendgridNotifier(cfg.Mail.SendgridKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	}

	webCfg := config.NewWebAppConfig(cfg)
	return NewWebAppFromRepositories(webCfg, repos, catalog, store, notifier, db, version, commit)
}

// NewWebAppFromRepositories wires the services. Tests call it with mocked
// repositories.
func NewWebAppFromRepositories(
	webCfg *config.WebAppConfig,
	repos *webmodels.Repositories,
	catalog *content.Catalog,
	store services.FileStore,
	notifier services.Notifier,
	db handlers.HealthChecker,
	version, commit string,
) (*handlers.WebApp, error) {
	cfg := webCfg.Config

	userService, err := services.NewUserService(repos.User, repos.Progress, notifier, services.UserServiceConfig{
		AdminUsernames: cfg.Admin.Usernames,
	})
	if err != nil {
		return nil, err
	}

	badgeService := services.NewBadgeService(repos.Badge, catalog)
	calc := progression.NewCalculator(cfg.Progress.XPPerLevel)

	return &handlers.WebApp{
		Config:             webCfg,
		DB:                 db,
		UserService:        userService,
		ProgressService:    services.NewProgressService(repos.Progress, catalog, calc, badgeService),
		BadgeService:       badgeService,
		LeaderboardService: services.NewLeaderboardService(repos.Progress),
		TrainingService:    services.NewTrainingService(repos.TrainingModule, store, catalog),
		AnalyticsService:   services.NewAnalyticsService(repos.User, repos.Progress, repos.QuizResult),
		SessionService:     webservices.NewSessionService(webCfg),
		Version:            version,
		Commit:             commit,
	}, nil
}

func newFileStore(ctx context.Context, cfg *onboardquest.Config) (services.FileStore, error) {
	if !cfg.Spaces.Enabled() {
		slog.Info("Storing uploads on local disk",
			slog.String("type", "sys"),
			slog.String("dir", cfg.Server.UploadDir))
		return services.NewLocalStore(cfg.Server.UploadDir), nil
	}
	store, err := services.NewSpacesStore(ctx, cfg.Spaces.Key, cfg.Spaces.Secret, cfg.Spaces.Region, cfg.Spaces.Bucket, cfg.Spaces.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces store: %w", err)
	}
	return store, nil
}

// Server is the HTTP API. Its context bounds the rate limiter sweepers.
type Server struct {
	App    *fiber.App
	WebApp *handlers.WebApp
	cancel context.CancelFunc
}

func NewServer(webApp *handlers.WebApp) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	app := fiber.New(fiber.Config{
		AppName:                 webApp.Config.Config.Server.AppName,
		ServerHeader:            "OnboardQuest",
		ErrorHandler:            middleware.CustomErrorHandler,
		BodyLimit:               webApp.Config.UploadLimitBytes(),
		DisableStartupMessage:   !webApp.Config.Debug,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          webApp.Config.Config.Server.TrustedProxies,
		EnableIPValidation:      true,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     webApp.Config.AllowedOrigins(),
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(ctx, app, webApp)

	return &Server{App: app, WebApp: webApp, cancel: cancel}
}

func (s *Server) Listen(address string) error {
	slog.Info("Starting backend server",
		slog.String("type", "http"),
		slog.String("address", address))
	return s.App.Listen(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.App.ShutdownWithContext(ctx)
}

// setupRoutes configures all application routes
func setupRoutes(ctx context.Context, app *fiber.App, webApp *handlers.WebApp) {
	api := app.Group("/api", middleware.APIRateLimit(ctx))
	api.Get("/health", handlers.HealthCheck(webApp))

	authLimit := middleware.AuthRateLimit(ctx)
	auth := api.Group("/auth")
	auth.Post("/register", authLimit, handlers.Register(webApp))
	auth.Post("/login", authLimit, handlers.Login(webApp))
	auth.Post("/logout", handlers.Logout(webApp))
	auth.Get("/me", middleware.AuthRequired(webApp), handlers.Me(webApp))

	protected := api.Group("", middleware.AuthRequired(webApp))

	user := protected.Group("/user")
	user.Get("/progress", handlers.GetProgress(webApp))
	user.Post("/progress", handlers.UpdateProgress(webApp))
	user.Patch("/profile", handlers.UpdateProfile(webApp))
	user.Get("/quiz-results", handlers.QuizResults(webApp))
	user.Get("/badges", handlers.ListBadges(webApp))
	user.Post("/badges", handlers.UnlockBadge(webApp))
	user.Post("/locations", handlers.UnlockLocation(webApp))

	protected.Get("/leaderboard", handlers.Leaderboard(webApp))

	protected.Get("/modules", handlers.ListModules(webApp))
	protected.Get("/modules/:id", handlers.ModuleDetail(webApp))
	protected.Post("/modules/:id/quiz", handlers.SubmitQuiz(webApp))

	admin := protected.Group("/admin", middleware.AdminRequired())
	admin.Get("/modules", handlers.AdminListModules(webApp))
	admin.Post("/modules/:id",
		middleware.UploadRateLimit(ctx),
		middleware.AuditLogMiddleware("upload_training_module"),
		handlers.UploadModule(webApp))

	hr := protected.Group("/hr", middleware.RoleRequired(models.RoleHR))
	hr.Get("/analytics", handlers.Analytics(webApp))
	hr.Get("/employees", handlers.Employees(webApp))

	if !webApp.Config.Config.Spaces.Enabled() {
		app.Static("/uploads", webApp.Config.Config.Server.UploadDir)
	}

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return fiber.NewError(fiber.StatusNotFound, "The requested endpoint does not exist")
	})
}
