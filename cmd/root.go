package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/questforge/onboard-quest/onboardquest"
	"github.com/questforge/onboard-quest/onboardquest/database"
	"github.com/questforge/onboard-quest/onboardquest/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "onboard-quest",
	Short:         "Gamified onboarding backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the root command with the build metadata set by main.
func Execute(ctx context.Context, v, c string) error {
	version, commit = v, c
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	return rootCmd.ExecuteContext(ctx)
}

// setup loads the config and installs the process-wide logger.
func setup(name string) (*onboardquest.Config, error) {
	cfg, err := onboardquest.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(logger.NewHandler(name, cfg.Log.Level)))
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg *onboardquest.Config) (*database.DB, error) {
	start := time.Now()
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(start)))
		return nil, err
	}

	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(start)))
	return db, nil
}
