package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
	"github.com/questforge/onboard-quest/onboardquest/migration"
	"github.com/questforge/onboard-quest/onboardquest/progression"
)

var importDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "import a BSON dump of the previous document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup("Import")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}

		timeout := cfg.DB.Timeout.Duration
		bunDB := db.BunDB()
		importer := migration.NewImporter(importDir,
			repositories.NewUserRepository(bunDB, timeout),
			repositories.NewProgressRepository(bunDB, timeout, cfg.Progress.XPPerLevel),
			repositories.NewBadgeRepository(bunDB, timeout),
			repositories.NewQuizResultRepository(bunDB, timeout),
			db,
			progression.NewCalculator(cfg.Progress.XPPerLevel),
		)

		summary, err := importer.Run(ctx)
		if err != nil {
			slog.Error("Import failed",
				slog.String("type", "db"),
				slog.String("dir", importDir),
				slog.Any("error", err))
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"imported %d users (%d duplicates), %d progress rows, %d quiz results (%d already present), %d badges (%d duplicates), skipped %d orphans\n",
			summary.Users, summary.DuplicateUsers, summary.Progress, summary.QuizResults, summary.SkippedQuizResults,
			summary.Badges, summary.DuplicateBadges, summary.SkippedOrphans)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "dump", "directory holding the *.bson files")
	rootCmd.AddCommand(importCmd)
}
