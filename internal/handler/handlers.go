package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/service"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/ws"
)

type submitReq struct {
	Mode  string `json:"mode"`
	Score int64  `json:"score"`
}

type createSessionReq struct {
	Mode      string `json:"mode"`
	Subreddit string `json:"subreddit,omitempty"`
}

type subredditsResp struct {
	Total int              `json:"total"`
	Items []game.Subreddit `json:"items"`
}

func RegisterHandlers(r *mux.Router, games service.GameService, boards service.LeaderboardService, posts service.PostsService, hub *ws.Hub, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	r.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		mode := req.URL.Query().Get("mode")
		limit := 0
		if raw := req.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}

		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		board, err := boards.Get(ctx, mode, limit, currentUsername(req))
		if err != nil {
			writeServiceError(w, log, "leaderboard get failed", err)
			return
		}

		log.Info("leaderboard fetched", zap.String("mode", mode), zap.Int("entries", len(board.Entries)))
		writeJSON(w, board)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/leaderboard/submit", func(w http.ResponseWriter, req *http.Request) {
		var in submitReq
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			log.Warn("submit bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		res, err := boards.Submit(ctx, in.Mode, currentUsername(req), in.Score)
		if err != nil {
			writeServiceError(w, log, "leaderboard submit failed", err)
			return
		}

		log.Info("score submitted",
			zap.String("mode", in.Mode),
			zap.Int64("score", in.Score),
			zap.Bool("accepted", res.Accepted),
		)
		writeJSON(w, res)
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/subreddits", func(w http.ResponseWriter, req *http.Request) {
		subs := games.Subreddits()
		log.Info("subreddits fetched", zap.Int("total", len(subs)))
		writeJSON(w, subredditsResp{Total: len(subs), Items: subs})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/posts", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		query := service.PostQuery{
			Subreddit:   strings.TrimSpace(q.Get("subreddit")),
			Source:      q.Get("source"),
			Timeframe:   q.Get("time"),
			IncludeNSFW: q.Get("includeNsfw") == "true",
			MinScore:    service.DefaultPostMinScore,
		}
		if raw := q.Get("limit"); raw != "" {
			query.Limit, _ = strconv.Atoi(raw)
		}
		if raw := q.Get("minScore"); raw != "" {
			query.MinScore, _ = strconv.ParseInt(raw, 10, 64)
		}
		if query.Subreddit == "" {
			http.Error(w, "subreddit is required", http.StatusBadRequest)
			return
		}

		res, err := posts.Fetch(query)
		if err != nil {
			writeServiceError(w, log, "posts fetch failed", err)
			return
		}

		log.Info("posts fetched", zap.String("subreddit", query.Subreddit), zap.Int("total", res.Total))
		writeJSON(w, res)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/sessions", func(w http.ResponseWriter, req *http.Request) {
		var in createSessionReq
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			log.Warn("create session bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		sess, err := games.CreateSession(in.Mode, in.Subreddit)
		if err != nil {
			writeServiceError(w, log, "create session failed", err)
			return
		}

		log.Info("session created", zap.String("code", sess.Code), zap.String("mode", string(sess.Mode)))
		writeJSON(w, sess.Snapshot())
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/sessions/{code}", func(w http.ResponseWriter, req *http.Request) {
		code := mux.Vars(req)["code"]
		sess, ok := games.GetSession(code)
		if !ok {
			log.Warn("session not found", zap.String("code", code))
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, sess.Snapshot())
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws/sessions/{code}", func(w http.ResponseWriter, req *http.Request) {
		code := mux.Vars(req)["code"]
		log.Info("ws connect attempt", zap.String("code", code))
		hub.ServeWS(w, req, code, currentUsername(req))
	})
}

// currentUsername resolves the player's identity. The hosting runtime
// fronting this service injects it as a header; absence means the
// player is not logged in.
func currentUsername(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Username"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidMode), errors.Is(err, game.ErrInvalidScore):
		log.Warn(msg, zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrUnauthenticated):
		log.Warn(msg, zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, game.ErrDatasetUnavailable):
		log.Warn(msg, zap.Error(err))
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error(msg, zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
