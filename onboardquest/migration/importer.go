// Package migration imports a dump of the previous document store into
// Postgres.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
	"github.com/questforge/onboard-quest/onboardquest/progression"
)

const (
	usersFile       = "users.bson"
	progressFile    = "progresses.bson"
	quizResultsFile = "quizresults.bson"
	badgesFile      = "badges.bson"
)

var quizResultColumns = []string{"user_id", "module_id", "score", "completed_at"}

// Copier bulk-loads rows with the COPY protocol.
type Copier interface {
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

type Importer struct {
	dir        string
	users      repositories.UserRepository
	progress   repositories.ProgressRepository
	badges     repositories.BadgeRepository
	quizzes    repositories.QuizResultRepository
	copier     Copier
	calc       progression.Calculator
	bcryptCost int
}

func NewImporter(dir string, users repositories.UserRepository, progress repositories.ProgressRepository, badges repositories.BadgeRepository, quizzes repositories.QuizResultRepository, copier Copier, calc progression.Calculator) *Importer {
	return &Importer{
		dir:        dir,
		users:      users,
		progress:   progress,
		badges:     badges,
		quizzes:    quizzes,
		copier:     copier,
		calc:       calc,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (im *Importer) SetBcryptCost(cost int) {
	im.bcryptCost = cost
}

// Run imports users first so every other record can reference them.
// Records owned by unknown or duplicate users are skipped.
func (im *Importer) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	known, err := im.importUsers(ctx, summary)
	if err != nil {
		return summary, err
	}
	if err := im.importProgress(ctx, known, summary); err != nil {
		return summary, err
	}
	if err := im.importQuizResults(ctx, known, summary); err != nil {
		return summary, err
	}
	if err := im.importBadges(ctx, known, summary); err != nil {
		return summary, err
	}

	slog.Info("Legacy import completed",
		slog.String("type", "db"),
		slog.Int("users", summary.Users),
		slog.Int("duplicate_users", summary.DuplicateUsers),
		slog.Int("progress", summary.Progress),
		slog.Int64("quiz_results", summary.QuizResults),
		slog.Int("skipped_quiz_results", summary.SkippedQuizResults),
		slog.Int("badges", summary.Badges),
		slog.Int("duplicate_badges", summary.DuplicateBadges),
		slog.Int("skipped_orphans", summary.SkippedOrphans))
	return summary, nil
}

func (im *Importer) importUsers(ctx context.Context, summary *Summary) (map[string]struct{}, error) {
	docs, err := readBSONFile[LegacyUser](filepath.Join(im.dir, usersFile))
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded users from BSON file", slog.Int("count", len(docs)))

	known := make(map[string]struct{}, len(docs))
	usernames := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		user, err := im.convertUser(doc)
		if err != nil {
			return nil, err
		}
		if _, dup := usernames[user.Username]; dup || user.Username == "" {
			summary.DuplicateUsers++
			slog.Warn("Skipping duplicate username", slog.String("username", user.Username))
			continue
		}
		if err := im.users.Upsert(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to import user %s: %w", user.Username, err)
		}
		usernames[user.Username] = struct{}{}
		known[user.ID] = struct{}{}
		summary.Users++
	}
	return known, nil
}

func (im *Importer) importProgress(ctx context.Context, known map[string]struct{}, summary *Summary) error {
	docs, err := readBSONFile[LegacyProgress](filepath.Join(im.dir, progressFile))
	if err != nil {
		return err
	}

	for _, doc := range docs {
		p := convertProgress(doc, im.calc)
		if _, ok := known[p.UserID]; !ok {
			summary.SkippedOrphans++
			continue
		}
		if err := im.progress.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to import progress for %s: %w", p.UserID, err)
		}
		summary.Progress++
	}
	return nil
}

// importQuizResults appends history only for users that have none yet, so
// running the import twice does not duplicate attempts.
func (im *Importer) importQuizResults(ctx context.Context, known map[string]struct{}, summary *Summary) error {
	docs, err := readBSONFile[LegacyQuizResult](filepath.Join(im.dir, quizResultsFile))
	if err != nil {
		return err
	}

	hasHistory := make(map[string]bool)
	rows := make([][]any, 0, len(docs))
	for _, doc := range docs {
		userID := doc.UserID.Hex()
		if _, ok := known[userID]; !ok || doc.ModuleID == "" {
			summary.SkippedOrphans++
			continue
		}
		existing, checked := hasHistory[userID]
		if !checked {
			n, err := im.quizzes.CountByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to count quiz results for %s: %w", userID, err)
			}
			existing = n > 0
			hasHistory[userID] = existing
		}
		if existing {
			summary.SkippedQuizResults++
			continue
		}
		rows = append(rows, convertQuizResult(doc))
	}
	if len(rows) == 0 {
		return nil
	}

	n, err := im.copier.CopyFrom(ctx, "quiz_results", quizResultColumns, rows)
	if err != nil {
		return fmt.Errorf("failed to copy quiz results: %w", err)
	}
	summary.QuizResults = n
	return nil
}

func (im *Importer) importBadges(ctx context.Context, known map[string]struct{}, summary *Summary) error {
	docs, err := readBSONFile[LegacyBadge](filepath.Join(im.dir, badgesFile))
	if err != nil {
		return err
	}

	for _, doc := range docs {
		userID := doc.UserID.Hex()
		if _, ok := known[userID]; !ok || doc.BadgeID == "" {
			summary.SkippedOrphans++
			continue
		}
		_, created, err := im.badges.Unlock(ctx, userID, doc.BadgeID)
		if err != nil {
			return fmt.Errorf("failed to import badge %s for %s: %w", doc.BadgeID, userID, err)
		}
		if created {
			summary.Badges++
		} else {
			summary.DuplicateBadges++
		}
	}
	return nil
}
