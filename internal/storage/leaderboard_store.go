package storage

import (
	"context"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

type MemberScore struct {
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

type RankedEntry struct {
	Username string `json:"username"`
	Score    int64  `json:"score"`
	Rank     int    `json:"rank"`
}

// LeaderboardStore keeps at most one score per (mode, username), the
// maximum ever accepted for that pair.
type LeaderboardStore interface {
	// BestScore returns the stored score for the user, if any.
	BestScore(ctx context.Context, mode game.Mode, username string) (int64, bool, error)

	// SubmitIfHigher stores the score only when it beats the current
	// one. The write must be atomic: two concurrent submissions from
	// the same user can never leave a lower score in place.
	SubmitIfHigher(ctx context.Context, mode game.Mode, username string, score int64) (accepted bool, err error)

	// Top returns up to limit members ordered by descending score.
	// Ties rank the earlier accepted submission first.
	Top(ctx context.Context, mode game.Mode, limit int) ([]MemberScore, error)

	// Rank returns the user's 1-based rank, computed as one plus the
	// count of members with a strictly greater score.
	Rank(ctx context.Context, mode game.Mode, username string) (RankedEntry, bool, error)
}
