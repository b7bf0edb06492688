package service

import (
	"context"
	"time"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/storage"
)

const (
	DefaultBoardLimit = 25
	MaxBoardLimit     = 100
)

type SubmitResult struct {
	Mode     game.Mode `json:"mode"`
	Accepted bool      `json:"accepted"`
	Previous *int64    `json:"previous"`
	Best     int64     `json:"best"`
}

type BoardUser struct {
	Username string `json:"username"`
	Score    int64  `json:"score"`
	Rank     int    `json:"rank"`
}

type Board struct {
	Mode      game.Mode             `json:"mode"`
	Entries   []storage.RankedEntry `json:"entries"`
	User      *BoardUser            `json:"user"`
	FetchedAt time.Time             `json:"fetchedAt"`
}

type LeaderboardService interface {
	// Submit stores the score under strict monotonic high-score
	// semantics: accepted only when it beats the stored value.
	Submit(ctx context.Context, mode string, username string, score int64) (SubmitResult, error)

	// Get returns the top entries ranked 1..N by descending score,
	// plus the requester's own rank when they have ever submitted.
	// An empty username just omits the user block.
	Get(ctx context.Context, mode string, limit int, username string) (Board, error)
}

type leaderboardService struct {
	store storage.LeaderboardStore
	now   func() time.Time
}

func NewLeaderboardService(store storage.LeaderboardStore) LeaderboardService {
	return &leaderboardService{store: store, now: time.Now}
}

func (s *leaderboardService) Submit(ctx context.Context, mode string, username string, score int64) (SubmitResult, error) {
	m, err := game.ParseMode(mode)
	if err != nil {
		return SubmitResult{}, err
	}
	if username == "" {
		return SubmitResult{}, game.ErrUnauthenticated
	}
	if score < 0 {
		return SubmitResult{}, game.ErrInvalidScore
	}

	var previous *int64
	if prev, ok, err := s.store.BestScore(ctx, m, username); err != nil {
		return SubmitResult{}, err
	} else if ok {
		p := prev
		previous = &p
	}

	accepted, err := s.store.SubmitIfHigher(ctx, m, username, score)
	if err != nil {
		return SubmitResult{}, err
	}

	best := score
	if !accepted {
		best = 0
		if previous != nil {
			best = *previous
		}
	}

	return SubmitResult{Mode: m, Accepted: accepted, Previous: previous, Best: best}, nil
}

func (s *leaderboardService) Get(ctx context.Context, mode string, limit int, username string) (Board, error) {
	m, err := game.ParseMode(mode)
	if err != nil {
		return Board{}, err
	}
	if limit <= 0 {
		limit = DefaultBoardLimit
	}
	if limit > MaxBoardLimit {
		limit = MaxBoardLimit
	}

	top, err := s.store.Top(ctx, m, limit)
	if err != nil {
		return Board{}, err
	}

	entries := make([]storage.RankedEntry, 0, len(top))
	for i, msc := range top {
		entries = append(entries, storage.RankedEntry{
			Username: msc.Username,
			Score:    msc.Score,
			Rank:     i + 1,
		})
	}

	board := Board{Mode: m, Entries: entries, FetchedAt: s.now().UTC()}

	if username != "" {
		entry, ok, err := s.store.Rank(ctx, m, username)
		if err != nil {
			return Board{}, err
		}
		if ok {
			board.User = &BoardUser{Username: entry.Username, Score: entry.Score, Rank: entry.Rank}
		}
	}
	return board, nil
}
