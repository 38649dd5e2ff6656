package services

import (
	"context"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

const DefaultLeaderboardLimit = 50

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	XP         int64  `json:"xp"`
	Level      int64  `json:"level"`
}

// LeaderboardService ranks every user by xp on each call. Rows are loaded
// in insertion order and sorted stably, so equal xp keeps insertion order.
type LeaderboardService struct {
	progress repositories.ProgressRepository
	group    singleflight.Group
}

func NewLeaderboardService(progress repositories.ProgressRepository) *LeaderboardService {
	return &LeaderboardService{progress: progress}
}

// GetLeaderboard returns at most limit entries. limit <= 0 returns all.
// Concurrent callers share one query, which is not bound to any single
// caller's cancellation.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ch := s.group.DoChan("leaderboard", func() (any, error) {
		rows, err := s.progress.ListInInsertionOrder(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return Rank(rows), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, translate("get leaderboard", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, translate("get leaderboard", res.Err)
	}

	entries := res.Val.([]LeaderboardEntry)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	out := make([]LeaderboardEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Rank orders rows by xp descending. Ties keep their input order and share
// no rank; ranks are positions.
func Rank(rows []models.LeaderboardRow) []LeaderboardEntry {
	sorted := make([]models.LeaderboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].XP > sorted[j].XP
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = LeaderboardEntry{
			Rank:       i + 1,
			UserID:     r.UserID,
			Name:       r.Name,
			Department: r.Department,
			XP:         r.XP,
			Level:      r.Level,
		}
	}
	return entries
}
