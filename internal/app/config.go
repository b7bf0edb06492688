package app

import "time"

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	LogLevel string
	LogFile  string

	SubredditsPath string
	PostsPath      string
	BestScorePath  string

	TimedDuration time.Duration
	PostMinScore  int64
}
