package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

type fakePostsDataset struct {
	posts map[string][]game.Post
}

func (f *fakePostsDataset) Posts(subreddit string) []game.Post {
	return f.posts[subreddit]
}

func picturePosts() []game.Post {
	return []game.Post{
		{ID: "p1", Title: "cat", Score: 120, Thumbnail: "https://i.example/1.jpg"},
		{ID: "p2", Title: "dog", Score: 5, Thumbnail: "https://i.example/2.jpg"},
		{ID: "p1", Title: "cat dup", Score: 120, Thumbnail: "https://i.example/1.jpg"},
		{ID: "p3", Title: "spicy", Score: 90, IsNSFW: true},
		{ID: "p4", Title: "pinned", Score: 500, IsStickied: true},
		{ID: "p5", Title: "mod note", Score: 400, IsModPost: true},
		{ID: "p6", Title: "bird", Score: 45},
	}
}

func TestPostsService_FiltersAndDedupes(t *testing.T) {
	svc := NewPostsService(&fakePostsDataset{posts: map[string][]game.Post{"pics": picturePosts()}})

	res, err := svc.Fetch(PostQuery{Subreddit: "pics", MinScore: 10})
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Items))
	for _, p := range res.Items {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{"p1", "p6"}, ids)
	require.Equal(t, 2, res.Total)
	require.Equal(t, "top", res.Source)
	require.Equal(t, "month", res.Timeframe)
}

func TestPostsService_IncludeNSFW(t *testing.T) {
	svc := NewPostsService(&fakePostsDataset{posts: map[string][]game.Post{"pics": picturePosts()}})

	res, err := svc.Fetch(PostQuery{Subreddit: "pics", MinScore: 10, IncludeNSFW: true})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
}

func TestPostsService_CapsAtLimit(t *testing.T) {
	svc := NewPostsService(&fakePostsDataset{posts: map[string][]game.Post{"pics": picturePosts()}})

	res, err := svc.Fetch(PostQuery{Subreddit: "pics", Limit: 1, MinScore: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "p1", res.Items[0].ID)
}

func TestPostsService_RequiresSubreddit(t *testing.T) {
	svc := NewPostsService(&fakePostsDataset{})

	_, err := svc.Fetch(PostQuery{})
	require.ErrorIs(t, err, game.ErrDatasetUnavailable)
}

func TestPostsService_UnknownSubredditIsEmpty(t *testing.T) {
	svc := NewPostsService(&fakePostsDataset{posts: map[string][]game.Post{}})

	res, err := svc.Fetch(PostQuery{Subreddit: "ghosts"})
	require.NoError(t, err)
	require.Empty(t, res.Items)
	require.Zero(t, res.Total)
}
