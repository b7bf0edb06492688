package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

// Dataset holds the offline snapshots the game samples from: a list
// of subreddits with subscriber counts and a list of picture posts
// grouped by subreddit. Loaded once at startup, read-only after.
type Dataset struct {
	subreddits []game.Subreddit
	posts      map[string][]game.Post
}

type subredditFile struct {
	Entries []subredditEntry `json:"entries"`
}

type subredditEntry struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	Subscribers *int64  `json:"subscribersCount"`
	IconURL     *string `json:"iconUrl"`
}

type postsFile struct {
	Entries []postEntry `json:"entries"`
}

type postEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     *string `json:"author"`
	Subreddit  string  `json:"subreddit"`
	Permalink  *string `json:"permalink"`
	Score      *int64  `json:"score"`
	CreatedAt  *string `json:"createdAt"`
	Thumbnail  *string `json:"thumbnail"`
	ImageURL   *string `json:"imageUrl"`
	IconURL    *string `json:"iconUrl"`
	IsNSFW     bool    `json:"isNsfw"`
	IsStickied bool    `json:"isStickied"`
	IsModPost  bool    `json:"isModOrAdmin"`
}

// LoadDataset reads both snapshot files. The posts path may be empty
// when the post-won mode is not served.
func LoadDataset(subredditsPath, postsPath string) (*Dataset, error) {
	d := &Dataset{posts: make(map[string][]game.Post)}

	if err := d.loadSubreddits(subredditsPath); err != nil {
		return nil, fmt.Errorf("load subreddits: %w", err)
	}
	if postsPath != "" {
		if err := d.loadPosts(postsPath); err != nil {
			return nil, fmt.Errorf("load posts: %w", err)
		}
	}
	return d, nil
}

func (d *Dataset) loadSubreddits(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f subredditFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}

	for _, e := range f.Entries {
		if e.Name == "" {
			continue
		}
		s := game.Subreddit{Name: e.Name}
		if e.ID != nil && *e.ID != "" {
			s.ID = *e.ID
		} else {
			s.ID = e.Name
		}
		if e.Subscribers != nil {
			s.Subscribers = *e.Subscribers
		}
		if e.IconURL != nil {
			s.IconURL = *e.IconURL
		}
		d.subreddits = append(d.subreddits, s)
	}
	return nil
}

func (d *Dataset) loadPosts(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f postsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}

	for _, e := range f.Entries {
		if e.ID == "" || e.Title == "" {
			continue
		}
		p := game.Post{
			ID:         e.ID,
			Title:      e.Title,
			Subreddit:  e.Subreddit,
			IsNSFW:     e.IsNSFW,
			IsStickied: e.IsStickied,
			IsModPost:  e.IsModPost,
		}
		if e.Author != nil {
			p.Author = *e.Author
		}
		if e.Score != nil {
			p.Score = *e.Score
		}
		if e.Permalink != nil && *e.Permalink != "" {
			p.Permalink = *e.Permalink
		} else {
			p.Permalink = "https://www.reddit.com/comments/" + e.ID
		}
		if e.CreatedAt != nil {
			if t, err := time.Parse(time.RFC3339, *e.CreatedAt); err == nil {
				p.CreatedAt = t
			}
		}
		p.Thumbnail = firstHTTPURL(e.ImageURL, e.Thumbnail, e.IconURL)

		key := strings.ToLower(e.Subreddit)
		d.posts[key] = append(d.posts[key], p)
	}
	return nil
}

func firstHTTPURL(candidates ...*string) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		u := strings.TrimSpace(*c)
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
	}
	return ""
}

// Subreddits returns the snapshot in load order.
func (d *Dataset) Subreddits() []game.Subreddit {
	out := make([]game.Subreddit, len(d.subreddits))
	copy(out, d.subreddits)
	return out
}

// Posts returns the snapshot for one subreddit, case-insensitive.
func (d *Dataset) Posts(subreddit string) []game.Post {
	src := d.posts[strings.ToLower(subreddit)]
	out := make([]game.Post, len(src))
	copy(out, src)
	return out
}
