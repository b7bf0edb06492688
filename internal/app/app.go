package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/handler"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/logger"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/service"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/storage"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/ws"
)

type App struct {
	cfg Config
	log *zap.Logger
	db  *pgxpool.Pool
	srv *http.Server
}

func New(cfg Config) (*App, error) {
	l, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = l.Sync()
		return nil, err
	}

	dataset, err := storage.LoadDataset(cfg.SubredditsPath, cfg.PostsPath)
	if err != nil {
		db.Close()
		_ = l.Sync()
		return nil, err
	}

	best, err := storage.NewFileBestStore(cfg.BestScorePath)
	if err != nil {
		db.Close()
		_ = l.Sync()
		return nil, err
	}

	lbStore := storage.NewPostgresLeaderboardStore(db)
	sm := game.NewSessionManager()

	gameSvc := service.NewGameService(sm, dataset, best, service.GameConfig{
		TimedDuration: cfg.TimedDuration,
		PostMinScore:  cfg.PostMinScore,
	})
	boardSvc := service.NewLeaderboardService(lbStore)
	postsSvc := service.NewPostsService(dataset)

	hub := ws.NewHub(gameSvc, boardSvc, l)

	r := mux.NewRouter()
	handler.RegisterHandlers(r, gameSvc, boardSvc, postsSvc, hub, l)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	return &App{cfg: cfg, log: l, db: db, srv: srv}, nil
}

func (a *App) Run() error {
	a.log.Info("server started",
		zap.String("addr", a.cfg.HTTPAddr),
		zap.String("log_level", a.cfg.LogLevel),
		zap.String("subreddits", a.cfg.SubredditsPath),
		zap.String("posts", a.cfg.PostsPath),
	)
	return a.srv.ListenAndServe()
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
