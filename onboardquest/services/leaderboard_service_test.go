package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/services/mock"
)

func leaderboardRows() []models.LeaderboardRow {
	return []models.LeaderboardRow{
		{Seq: 1, UserID: "a", Name: "Ada", XP: 75, Level: 1},
		{Seq: 2, UserID: "b", Name: "Bo", XP: 325, Level: 4},
		{Seq: 3, UserID: "c", Name: "Cy", XP: 75, Level: 1},
		{Seq: 4, UserID: "d", Name: "Di", XP: 0, Level: 1},
		{Seq: 5, UserID: "e", Name: "Ed", XP: 75, Level: 1},
	}
}

func ids(entries []LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.UserID
	}
	return out
}

func TestRankSortsByXPAndKeepsTiesInInsertionOrder(t *testing.T) {
	entries := Rank(leaderboardRows())

	assert.Equal(t, []string{"b", "a", "c", "e", "d"}, ids(entries))
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].XP, e.XP)
		}
	}
}

func TestGetLeaderboardIsStableAcrossCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProgressRepository(ctrl)
	svc := NewLeaderboardService(repo)
	ctx := context.Background()

	repo.EXPECT().ListInInsertionOrder(gomock.Any()).Return(leaderboardRows(), nil).Times(3)

	first, err := svc.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		again, err := svc.GetLeaderboard(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetLeaderboardLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProgressRepository(ctrl)
	svc := NewLeaderboardService(repo)

	repo.EXPECT().ListInInsertionOrder(gomock.Any()).Return(leaderboardRows(), nil)

	entries, err := svc.GetLeaderboard(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(entries))
}

func TestGetLeaderboardStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProgressRepository(ctrl)
	svc := NewLeaderboardService(repo)

	repo.EXPECT().ListInInsertionOrder(gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))

	_, err := svc.GetLeaderboard(context.Background(), 10)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestLeaderboardOverMemoryStore(t *testing.T) {
	repo := newMemoryProgressRepository(100)
	svc := NewLeaderboardService(repo)
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		_, _ = repo.GetOrCreate(ctx, u)
	}
	_, _ = repo.AddXP(ctx, "u3", 40)

	entries, err := svc.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u1", "u2"}, ids(entries))
}

func TestGetLeaderboardQueryOutlivesCancelledCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProgressRepository(ctrl)
	svc := NewLeaderboardService(repo)

	started := make(chan struct{})
	release := make(chan struct{})
	queryErr := make(chan error, 1)
	repo.EXPECT().ListInInsertionOrder(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.LeaderboardRow, error) {
		close(started)
		<-release
		queryErr <- ctx.Err()
		return leaderboardRows(), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.GetLeaderboard(ctx, 0)
		done <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	assert.NoError(t, <-queryErr)
}
