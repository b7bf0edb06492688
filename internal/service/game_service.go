package service

import (
	"math/rand"
	"time"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

type GameDataset interface {
	Subreddits() []game.Subreddit
	Posts(subreddit string) []game.Post
}

type GameConfig struct {
	// TimedDuration is the countdown length for timed modes.
	TimedDuration time.Duration
	// PostMinScore filters the post-won sampling pool.
	PostMinScore int64
}

type GameService interface {
	// CreateSession builds a sampler for the mode's pool and starts a
	// session. Subreddit is required only for the post-won mode.
	CreateSession(mode string, subreddit string) (*game.Session, error)
	GetSession(code string) (*game.Session, bool)
	RemoveSession(code string)
	TimedDuration() time.Duration
	// Subreddits lists the loaded snapshot, e.g. for a mode picker.
	Subreddits() []game.Subreddit
}

type gameService struct {
	sm      *game.SessionManager
	data    GameDataset
	best    game.BestStore
	cfg     GameConfig
	newSeed func() int64
}

func NewGameService(sm *game.SessionManager, data GameDataset, best game.BestStore, cfg GameConfig) GameService {
	if cfg.TimedDuration == 0 {
		cfg.TimedDuration = 60 * time.Second
	}
	if cfg.PostMinScore == 0 {
		cfg.PostMinScore = DefaultPostMinScore
	}
	return &gameService{
		sm:      sm,
		data:    data,
		best:    best,
		cfg:     cfg,
		newSeed: func() int64 { return time.Now().UnixNano() ^ rand.Int63() },
	}
}

func (s *gameService) CreateSession(mode string, subreddit string) (*game.Session, error) {
	m, err := game.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	var pool []game.Entity
	if m == game.ModePostWon {
		if subreddit == "" {
			return nil, game.ErrDatasetUnavailable
		}
		pool = s.postPool(subreddit)
	} else {
		pool = game.SubredditEntities(s.data.Subreddits())
	}

	sampler := game.NewSampler(pool, s.newSeed())
	return s.sm.Create(m, sampler, s.best)
}

// postPool keeps image posts above the score threshold; text-only,
// NSFW and moderator posts never enter the pairing pool.
func (s *gameService) postPool(subreddit string) []game.Entity {
	posts := s.data.Posts(subreddit)
	filtered := make([]game.Post, 0, len(posts))
	for _, p := range posts {
		if p.Thumbnail == "" || p.IsNSFW || p.IsStickied || p.IsModPost {
			continue
		}
		if p.Score < s.cfg.PostMinScore {
			continue
		}
		filtered = append(filtered, p)
	}
	return game.PostEntities(filtered)
}

func (s *gameService) GetSession(code string) (*game.Session, bool) {
	return s.sm.Get(code)
}

func (s *gameService) RemoveSession(code string) {
	s.sm.Remove(code)
}

func (s *gameService) TimedDuration() time.Duration {
	return s.cfg.TimedDuration
}

func (s *gameService) Subreddits() []game.Subreddit {
	return s.data.Subreddits()
}
