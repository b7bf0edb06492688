package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/storage"
)

type mockLeaderboardStore struct {
	mock.Mock
}

func (m *mockLeaderboardStore) BestScore(ctx context.Context, mode game.Mode, username string) (int64, bool, error) {
	args := m.Called(ctx, mode, username)
	score, _ := args.Get(0).(int64)
	ok, _ := args.Get(1).(bool)
	return score, ok, args.Error(2)
}

func (m *mockLeaderboardStore) SubmitIfHigher(ctx context.Context, mode game.Mode, username string, score int64) (bool, error) {
	args := m.Called(ctx, mode, username, score)
	return args.Bool(0), args.Error(1)
}

func (m *mockLeaderboardStore) Top(ctx context.Context, mode game.Mode, limit int) ([]storage.MemberScore, error) {
	args := m.Called(ctx, mode, limit)
	rows, _ := args.Get(0).([]storage.MemberScore)
	return rows, args.Error(1)
}

func (m *mockLeaderboardStore) Rank(ctx context.Context, mode game.Mode, username string) (storage.RankedEntry, bool, error) {
	args := m.Called(ctx, mode, username)
	entry, _ := args.Get(0).(storage.RankedEntry)
	ok, _ := args.Get(1).(bool)
	return entry, ok, args.Error(2)
}

func TestLeaderboardService_Submit_FirstScore(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	store.On("BestScore", mock.Anything, game.ModeClassic, "u1").Return(int64(0), false, nil).Once()
	store.On("SubmitIfHigher", mock.Anything, game.ModeClassic, "u1", int64(5)).Return(true, nil).Once()

	res, err := svc.Submit(ctx, "classic", "u1", 5)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Nil(t, res.Previous)
	require.Equal(t, int64(5), res.Best)

	store.AssertExpectations(t)
}

func TestLeaderboardService_Submit_LowerScoreRejected(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	store.On("BestScore", mock.Anything, game.ModeClassic, "u1").Return(int64(5), true, nil).Once()
	store.On("SubmitIfHigher", mock.Anything, game.ModeClassic, "u1", int64(3)).Return(false, nil).Once()

	res, err := svc.Submit(ctx, "classic", "u1", 3)
	require.NoError(t, err)
	require.False(t, res.Accepted)
	require.NotNil(t, res.Previous)
	require.Equal(t, int64(5), *res.Previous)
	require.Equal(t, int64(5), res.Best)

	store.AssertExpectations(t)
}

func TestLeaderboardService_Submit_Validation(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "warp-speed", "u1", 5)
	require.ErrorIs(t, err, game.ErrInvalidMode)

	_, err = svc.Submit(ctx, "classic", "", 5)
	require.ErrorIs(t, err, game.ErrUnauthenticated)

	_, err = svc.Submit(ctx, "classic", "u1", -1)
	require.ErrorIs(t, err, game.ErrInvalidScore)

	store.AssertNotCalled(t, "SubmitIfHigher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_Submit_StoreError(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	storeErr := errors.New("db down")
	store.On("BestScore", mock.Anything, game.ModeMystery, "u1").Return(int64(0), false, storeErr).Once()

	_, err := svc.Submit(ctx, "mystery", "u1", 2)
	require.ErrorIs(t, err, storeErr)
}

func TestLeaderboardService_Get_RanksSequentially(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	store.On("Top", mock.Anything, game.ModeClassic, 3).Return([]storage.MemberScore{
		{Username: "a", Score: 30},
		{Username: "b", Score: 20},
		{Username: "c", Score: 10},
	}, nil).Once()

	board, err := svc.Get(ctx, "classic", 3, "")
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)
	for i, e := range board.Entries {
		require.Equal(t, i+1, e.Rank)
	}
	require.GreaterOrEqual(t, board.Entries[0].Score, board.Entries[1].Score)
	require.GreaterOrEqual(t, board.Entries[1].Score, board.Entries[2].Score)
	require.Nil(t, board.User)
	require.False(t, board.FetchedAt.IsZero())

	store.AssertNotCalled(t, "Rank", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_Get_IncludesUserRank(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	store.On("Top", mock.Anything, game.ModeClassic, DefaultBoardLimit).Return([]storage.MemberScore{
		{Username: "a", Score: 30},
	}, nil).Once()
	store.On("Rank", mock.Anything, game.ModeClassic, "zed").Return(storage.RankedEntry{
		Username: "zed", Score: 4, Rank: 17,
	}, true, nil).Once()

	board, err := svc.Get(ctx, "classic", 0, "zed")
	require.NoError(t, err)
	require.NotNil(t, board.User)
	require.Equal(t, 17, board.User.Rank)
	require.Equal(t, int64(4), board.User.Score)

	store.AssertExpectations(t)
}

func TestLeaderboardService_Get_UserNeverSubmitted(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	store.On("Top", mock.Anything, game.ModePostWon, DefaultBoardLimit).Return([]storage.MemberScore{}, nil).Once()
	store.On("Rank", mock.Anything, game.ModePostWon, "new-player").Return(storage.RankedEntry{}, false, nil).Once()

	board, err := svc.Get(ctx, "post-won", 0, "new-player")
	require.NoError(t, err)
	require.Nil(t, board.User)
	require.Empty(t, board.Entries)
}

func TestLeaderboardService_Get_ClampsLimit(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)
	ctx := context.Background()

	store.On("Top", mock.Anything, game.ModeClassic, MaxBoardLimit).Return([]storage.MemberScore{}, nil).Once()

	_, err := svc.Get(ctx, "classic", 5000, "")
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestLeaderboardService_Get_InvalidMode(t *testing.T) {
	store := new(mockLeaderboardStore)
	svc := NewLeaderboardService(store)

	_, err := svc.Get(context.Background(), "bogus", 10, "")
	require.ErrorIs(t, err, game.ErrInvalidMode)
}
