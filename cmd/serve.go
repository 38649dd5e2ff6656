package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/questforge/onboard-quest/backend"
)

var skipSchema bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup("OnboardQuest")
		if err != nil {
			return err
		}

		slog.Info("Starting Onboard Quest",
			slog.String("version", version),
			slog.String("commit", commit),
			slog.String("environment", cfg.Server.Environment))

		ctx := cmd.Context()
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if !skipSchema {
			if err := db.InitializeSchema(ctx); err != nil {
				slog.Error("Failed to initialize database schema",
					slog.String("type", "db"),
					slog.Any("error", err))
				return err
			}
		}

		webApp, err := backend.NewWebApp(ctx, cfg, db, version, commit)
		if err != nil {
			return err
		}
		server := backend.NewServer(webApp)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Listen(cfg.Server.Address)
		}()

		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(s)

		select {
		case err := <-errCh:
			if err != nil {
				slog.Error("Server stopped unexpectedly",
					slog.String("type", "http"),
					slog.Any("error", err))
				return err
			}
			return nil
		case sig := <-s:
			slog.Info("Shutting down",
				slog.String("type", "sys"),
				slog.String("signal", sig.String()))
		}

		if err := server.Shutdown(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Graceful shutdown failed",
				slog.String("type", "http"),
				slog.Any("error", err))
			return err
		}
		slog.Info("Server stopped", slog.String("type", "sys"))
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "do not create missing tables on startup")
	rootCmd.AddCommand(serveCmd)
}
