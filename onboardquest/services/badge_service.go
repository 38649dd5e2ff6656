package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/questforge/onboard-quest/onboardquest/content"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

// UnlockedBadge is a catalog badge together with when the user earned it.
type UnlockedBadge struct {
	content.Badge
	UnlockedAt time.Time `json:"unlockedAt"`
}

type BadgeService struct {
	repo    repositories.BadgeRepository
	catalog *content.Catalog
}

func NewBadgeService(repo repositories.BadgeRepository, catalog *content.Catalog) *BadgeService {
	return &BadgeService{repo: repo, catalog: catalog}
}

// Unlock records badgeID for the user. A repeated unlock returns the
// original record with created set to false.
func (s *BadgeService) Unlock(ctx context.Context, userID, badgeID string) (*models.BadgeUnlock, bool, error) {
	if _, ok := s.catalog.Badge(badgeID); !ok {
		return nil, false, fmt.Errorf("badge %q: %w", badgeID, ErrNotFound)
	}
	unlock, created, err := s.repo.Unlock(ctx, userID, badgeID)
	if err != nil {
		return nil, false, translate("unlock badge", err)
	}
	return unlock, created, nil
}

// Evaluate unlocks every automatic badge progress now qualifies for and
// returns the ids that were newly unlocked.
func (s *BadgeService) Evaluate(ctx context.Context, userID string, progress *models.Progress) ([]string, error) {
	if progress == nil {
		return []string{}, nil
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate("evaluate badges", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		have[u.BadgeID] = struct{}{}
	}

	unlocked := []string{}
	for _, b := range s.catalog.Badges() {
		if _, ok := have[b.ID]; ok {
			continue
		}
		if !b.Met(progress, s.catalog.ModuleCount()) {
			continue
		}
		_, created, err := s.repo.Unlock(ctx, userID, b.ID)
		if err != nil {
			return unlocked, translate("evaluate badges", err)
		}
		if created {
			unlocked = append(unlocked, b.ID)
			slog.Info("Badge unlocked",
				slog.String("user_id", userID),
				slog.String("badge_id", b.ID))
		}
	}
	return unlocked, nil
}

// List returns the user's badges in unlock order. Unlocks of badges no
// longer in the catalog are skipped.
func (s *BadgeService) List(ctx context.Context, userID string) ([]UnlockedBadge, error) {
	unlocks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate("list badges", err)
	}

	badges := make([]UnlockedBadge, 0, len(unlocks))
	for _, u := range unlocks {
		b, ok := s.catalog.Badge(u.BadgeID)
		if !ok {
			continue
		}
		badges = append(badges, UnlockedBadge{Badge: b, UnlockedAt: u.UnlockedAt})
	}
	return badges, nil
}
