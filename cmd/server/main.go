package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/app"
)

func main() {
	_ = godotenv.Load()

	cfg := app.Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		SubredditsPath: getenv("SUBREDDITS_PATH", "data/subreddits.json"),
		PostsPath:      getenv("POSTS_PATH", "data/picture_posts.json"),
		BestScorePath:  getenv("BEST_SCORE_PATH", "data/best_scores.json"),

		TimedDuration: 60 * time.Second,
		PostMinScore:  10,
	}

	if cfg.DatabaseURL == "" {
		panic("DATABASE_URL is required")
	}

	a, err := app.New(cfg)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		panic(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
