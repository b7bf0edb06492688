package storage

import (
	"context"
	"errors"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLeaderboardStore backs the leaderboard with the table
//
//	CREATE TABLE leaderboard (
//	    mode       text        NOT NULL,
//	    username   text        NOT NULL,
//	    score      bigint      NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now(),
//	    PRIMARY KEY (mode, username)
//	);
type PostgresLeaderboardStore struct {
	db *pgxpool.Pool
}

func NewPostgresLeaderboardStore(db *pgxpool.Pool) *PostgresLeaderboardStore {
	return &PostgresLeaderboardStore{db: db}
}

func (s *PostgresLeaderboardStore) BestScore(ctx context.Context, mode game.Mode, username string) (int64, bool, error) {
	var score int64
	err := s.db.QueryRow(ctx, `
		SELECT score
		FROM leaderboard
		WHERE mode = $1 AND username = $2
	`, string(mode), username).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// SubmitIfHigher is a single conditional upsert, so concurrent
// submissions from duplicate tabs cannot clobber a higher score.
func (s *PostgresLeaderboardStore) SubmitIfHigher(ctx context.Context, mode game.Mode, username string, score int64) (bool, error) {
	ct, err := s.db.Exec(ctx, `
		INSERT INTO leaderboard (mode, username, score, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (mode, username)
		DO UPDATE SET score = EXCLUDED.score, updated_at = now()
		WHERE leaderboard.score < EXCLUDED.score
	`, string(mode), username, score)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (s *PostgresLeaderboardStore) Top(ctx context.Context, mode game.Mode, limit int) ([]MemberScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT username, score
		FROM leaderboard
		WHERE mode = $1
		ORDER BY score DESC, updated_at ASC, username ASC
		LIMIT $2
	`, string(mode), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MemberScore, 0, limit)
	for rows.Next() {
		var m MemberScore
		if err := rows.Scan(&m.Username, &m.Score); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresLeaderboardStore) Rank(ctx context.Context, mode game.Mode, username string) (RankedEntry, bool, error) {
	var entry RankedEntry
	err := s.db.QueryRow(ctx, `
		SELECT l.username, l.score,
		       1 + (SELECT count(*) FROM leaderboard o
		            WHERE o.mode = l.mode AND o.score > l.score) AS rank
		FROM leaderboard l
		WHERE l.mode = $1 AND l.username = $2
	`, string(mode), username).Scan(&entry.Username, &entry.Score, &entry.Rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return RankedEntry{}, false, nil
	}
	if err != nil {
		return RankedEntry{}, false, err
	}
	return entry, true, nil
}
