package service

import (
	"time"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

const (
	DefaultPostLimit    = 200
	MaxPostLimit        = 1000
	DefaultPostMinScore = 10
)

// PostQuery mirrors the /api/posts parameters. Source and timeframe
// only describe the snapshot; filtering happens locally.
type PostQuery struct {
	Subreddit   string
	Source      string
	Timeframe   string
	Limit       int
	MinScore    int64
	IncludeNSFW bool
}

type PostsResult struct {
	Subreddit string      `json:"subreddit"`
	Source    string      `json:"source"`
	Timeframe string      `json:"timeframe"`
	Total     int         `json:"total"`
	Items     []game.Post `json:"items"`
	FetchedAt time.Time   `json:"fetchedAt"`
}

// PostsDataset is the read-only post snapshot the service filters.
type PostsDataset interface {
	Posts(subreddit string) []game.Post
}

type PostsService interface {
	Fetch(q PostQuery) (PostsResult, error)
}

type postsService struct {
	data PostsDataset
	now  func() time.Time
}

func NewPostsService(data PostsDataset) PostsService {
	return &postsService{data: data, now: time.Now}
}

// Fetch applies the server-side filters: score threshold, NSFW and
// stickied/mod exclusion, dedup by id, cap at limit.
func (s *postsService) Fetch(q PostQuery) (PostsResult, error) {
	if q.Subreddit == "" {
		return PostsResult{}, game.ErrDatasetUnavailable
	}
	if q.Source == "" {
		q.Source = "top"
	}
	if q.Timeframe == "" {
		q.Timeframe = "month"
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPostLimit
	}
	if q.Limit > MaxPostLimit {
		q.Limit = MaxPostLimit
	}
	if q.MinScore < 0 {
		q.MinScore = 0
	}

	seen := make(map[string]bool)
	items := make([]game.Post, 0, q.Limit)
	for _, p := range s.data.Posts(q.Subreddit) {
		if seen[p.ID] {
			continue
		}
		if p.IsStickied || p.IsModPost {
			continue
		}
		if p.IsNSFW && !q.IncludeNSFW {
			continue
		}
		if p.Score < q.MinScore {
			continue
		}
		seen[p.ID] = true
		items = append(items, p)
		if len(items) == q.Limit {
			break
		}
	}

	return PostsResult{
		Subreddit: q.Subreddit,
		Source:    q.Source,
		Timeframe: q.Timeframe,
		Total:     len(items),
		Items:     items,
		FetchedAt: s.now().UTC(),
	}, nil
}
