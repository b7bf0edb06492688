package game

import "time"

// Entity is one comparable item in a round: a subreddit compared by
// subscriber count or a post compared by upvote score.
type Entity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Value    int64  `json:"value"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// Usable reports whether the entity may enter a sampling pool.
// Entries without a positive comparable value are excluded for the
// whole session.
func (e Entity) Usable() bool {
	return e.Value > 0
}

type Subreddit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subscribers int64  `json:"subscribersCount"`
	IconURL     string `json:"iconUrl,omitempty"`
}

func (s Subreddit) Entity() Entity {
	return Entity{
		ID:       s.ID,
		Name:     s.Name,
		Value:    s.Subscribers,
		MediaURL: s.IconURL,
	}
}

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author,omitempty"`
	Subreddit  string    `json:"subreddit"`
	Permalink  string    `json:"permalink"`
	Score      int64     `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	IsStickied bool      `json:"isStickied"`
	IsNSFW     bool      `json:"isNsfw"`
	IsModPost  bool      `json:"isModOrAdmin"`
}

func (p Post) Entity() Entity {
	return Entity{
		ID:       p.ID,
		Name:     p.Title,
		Value:    p.Score,
		MediaURL: p.Thumbnail,
	}
}

// SubredditEntities converts a snapshot slice, keeping order.
func SubredditEntities(subs []Subreddit) []Entity {
	out := make([]Entity, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.Entity())
	}
	return out
}

// PostEntities converts a snapshot slice, keeping order.
func PostEntities(posts []Post) []Entity {
	out := make([]Entity, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Entity())
	}
	return out
}
