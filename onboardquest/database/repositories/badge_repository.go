package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

type BadgeRepository interface {
	// Unlock inserts the (user, badge) pair once. The bool is false when the
	// badge was already unlocked; the existing row is returned then.
	Unlock(ctx context.Context, userID, badgeID string) (*models.BadgeUnlock, bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.BadgeUnlock, error)
}

type badgeRepository struct {
	*BaseRepository
}

func NewBadgeRepository(db *bun.DB, timeout time.Duration) BadgeRepository {
	return &badgeRepository{BaseRepository: NewBaseRepository(db, timeout)}
}

func (r *badgeRepository) Unlock(ctx context.Context, userID, badgeID string) (*models.BadgeUnlock, bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	unlock := &models.BadgeUnlock{UserID: userID, BadgeID: badgeID}
	res, err := r.db.NewInsert().
		Model(unlock).
		On("CONFLICT (user_id, badge_id) DO NOTHING").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, r.HandleErrorWithID("unlock", "badge", userID, err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		slog.Debug("Badge unlocked",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.String("badge_id", badgeID))
		return unlock, true, nil
	}

	existing := new(models.BadgeUnlock)
	err = r.db.NewSelect().
		Model(existing).
		Where("user_id = ?", userID).
		Where("badge_id = ?", badgeID).
		Scan(ctx)
	if err != nil {
		return nil, false, r.HandleErrorWithID("unlock", "badge", badgeID, err)
	}
	return existing, false, nil
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID string) ([]*models.BadgeUnlock, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var unlocks []*models.BadgeUnlock
	err := r.db.NewSelect().
		Model(&unlocks).
		Where("user_id = ?", userID).
		OrderExpr("unlocked_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list", "badge", userID, err)
	}
	return unlocks, nil
}
