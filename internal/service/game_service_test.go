package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

type fakeGameDataset struct {
	subs  []game.Subreddit
	posts map[string][]game.Post
}

func (f *fakeGameDataset) Subreddits() []game.Subreddit { return f.subs }
func (f *fakeGameDataset) Posts(sub string) []game.Post { return f.posts[sub] }

func testDataset() *fakeGameDataset {
	subs := make([]game.Subreddit, 0, 6)
	for i, name := range []string{"golang", "pics", "aww", "science", "music", "books"} {
		subs = append(subs, game.Subreddit{
			ID:          name,
			Name:        name,
			Subscribers: int64(1000 * (i + 1)),
		})
	}
	return &fakeGameDataset{
		subs: subs,
		posts: map[string][]game.Post{
			"pics": {
				{ID: "p1", Title: "one", Score: 100, Thumbnail: "https://i.example/1.jpg"},
				{ID: "p2", Title: "two", Score: 300, Thumbnail: "https://i.example/2.jpg"},
				{ID: "p3", Title: "low", Score: 2, Thumbnail: "https://i.example/3.jpg"},
				{ID: "p4", Title: "no image", Score: 900},
			},
		},
	}
}

func TestGameService_Defaults(t *testing.T) {
	svc := NewGameService(game.NewSessionManager(), testDataset(), nil, GameConfig{})
	require.Equal(t, 60*time.Second, svc.TimedDuration())
}

func TestGameService_CreateSubredditSession(t *testing.T) {
	svc := NewGameService(game.NewSessionManager(), testDataset(), nil, GameConfig{})

	sess, err := svc.CreateSession("classic", "")
	require.NoError(t, err)
	require.Equal(t, game.ModeClassic, sess.Mode)

	got, ok := svc.GetSession(sess.Code)
	require.True(t, ok)
	require.Equal(t, sess.Code, got.Code)

	svc.RemoveSession(sess.Code)
	_, ok = svc.GetSession(sess.Code)
	require.False(t, ok)
}

func TestGameService_CreatePostSession(t *testing.T) {
	svc := NewGameService(game.NewSessionManager(), testDataset(), nil, GameConfig{})

	sess, err := svc.CreateSession("post-won", "pics")
	require.NoError(t, err)

	// Only p1 and p2 survive the image + score filters.
	snap := sess.Snapshot()
	require.ElementsMatch(t,
		[]string{"p1", "p2"},
		[]string{snap.Pair.Left.ID, snap.Pair.Right.ID},
	)
}

func TestGameService_PostSessionRequiresSubreddit(t *testing.T) {
	svc := NewGameService(game.NewSessionManager(), testDataset(), nil, GameConfig{})

	_, err := svc.CreateSession("post-won", "")
	require.ErrorIs(t, err, game.ErrDatasetUnavailable)
}

func TestGameService_PoolTooSmall(t *testing.T) {
	svc := NewGameService(game.NewSessionManager(), &fakeGameDataset{}, nil, GameConfig{})

	_, err := svc.CreateSession("mystery", "")
	require.ErrorIs(t, err, game.ErrDatasetUnavailable)
}

func TestGameService_InvalidMode(t *testing.T) {
	svc := NewGameService(game.NewSessionManager(), testDataset(), nil, GameConfig{})

	_, err := svc.CreateSession("speedrun", "")
	require.ErrorIs(t, err, game.ErrInvalidMode)
}
