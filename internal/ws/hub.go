package ws

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
	"github.com/Ayush-Khandelwal28/higherlowergame/internal/service"
)

// Hub fans session events out to every connection watching the same
// session code and owns the per-session countdowns for timed modes.
type Hub struct {
	games  service.GameService
	boards service.LeaderboardService
	log    *zap.Logger

	mu            sync.RWMutex
	clientsByCode map[string]map[*Client]struct{}
	countdowns    map[string]*game.Countdown
	owners        map[string]string
	submittedBest map[string]int

	register   chan *Client
	unregister chan *Client
	broadcast  chan sessionMessage
}

type sessionMessage struct {
	code string
	data []byte
}

func NewHub(games service.GameService, boards service.LeaderboardService, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		games:         games,
		boards:        boards,
		log:           log,
		clientsByCode: make(map[string]map[*Client]struct{}),
		countdowns:    make(map[string]*game.Countdown),
		owners:        make(map[string]string),
		submittedBest: make(map[string]int),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan sessionMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) Broadcast(code string, env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		h.log.Error("ws broadcast marshal failed", zap.Error(err))
		return
	}
	h.broadcast <- sessionMessage{code: strings.ToUpper(code), data: b}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if _, ok := h.clientsByCode[c.code]; !ok {
				h.clientsByCode[c.code] = make(map[*Client]struct{})
			}
			h.clientsByCode[c.code][c] = struct{}{}
			if c.username != "" && h.owners[c.code] == "" {
				h.owners[c.code] = c.username
			}
			h.mu.Unlock()

			h.log.Info("ws client registered",
				zap.String("session", c.code),
				zap.String("username", c.username),
			)

		case c := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(c)
			h.mu.Unlock()

			h.log.Info("ws client unregistered",
				zap.String("session", c.code),
				zap.String("username", c.username),
			)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clientsByCode[msg.code] {
				select {
				case c.send <- msg.data:
				default:
					// Slow consumer; dropping it here keeps run()
					// from blocking on its own unregister channel.
					h.dropLocked(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropLocked removes a client and, when it was the last one for its
// session, the per-session bookkeeping. Caller holds h.mu.
func (h *Hub) dropLocked(c *Client) {
	clients, ok := h.clientsByCode[c.code]
	if !ok {
		return
	}
	if _, exists := clients[c]; exists {
		delete(clients, c)
		close(c.send)
	}
	if len(clients) == 0 {
		delete(h.clientsByCode, c.code)
		delete(h.owners, c.code)
		delete(h.submittedBest, c.code)
		if cd, ok := h.countdowns[c.code]; ok {
			cd.Pause()
		}
	}
}

// ensureCountdown arms the timed-mode clock on first join and resumes
// it on rejoin. No-op for streak modes.
func (h *Hub) ensureCountdown(sess *game.Session) {
	if !sess.Mode.Timed() {
		return
	}

	code := strings.ToUpper(sess.Code)

	h.mu.Lock()
	cd, ok := h.countdowns[code]
	if !ok {
		cd = game.NewCountdown(h.games.TimedDuration())
		h.countdowns[code] = cd
		sess.SetDeadline(time.Now().Add(h.games.TimedDuration()))
		go h.watchCountdown(sess, cd)
	}
	h.mu.Unlock()

	cd.Start()
}

// resetCountdown re-arms the clock alongside a session reset.
func (h *Hub) resetCountdown(sess *game.Session) {
	if !sess.Mode.Timed() {
		return
	}

	code := strings.ToUpper(sess.Code)

	h.mu.Lock()
	cd, ok := h.countdowns[code]
	h.mu.Unlock()
	if !ok {
		h.ensureCountdown(sess)
		return
	}

	// The expiry watcher exits once Done fires; only then does a
	// reset need a fresh one.
	expired := !cd.Running() && cd.Remaining() == 0
	cd.Reset()
	sess.SetDeadline(time.Now().Add(h.games.TimedDuration()))
	if expired {
		go h.watchCountdown(sess, cd)
	}
	cd.Start()
}

// submitScore forwards a terminal score to the leaderboard once per
// session high-water mark. Fire-and-forget: failures are logged, the
// store's monotonic accept policy absorbs duplicates.
func (h *Hub) submitScore(code string, mode game.Mode, score int) {
	h.mu.Lock()
	username := h.owners[code]
	already := h.submittedBest[code]
	if username == "" || score <= 0 || score <= already {
		h.mu.Unlock()
		return
	}
	h.submittedBest[code] = score
	h.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := h.boards.Submit(ctx, string(mode), username, int64(score))
		if err != nil {
			h.log.Warn("leaderboard submit failed",
				zap.String("session", code),
				zap.String("username", username),
				zap.Error(err),
			)
			return
		}
		h.log.Info("leaderboard submit done",
			zap.String("session", code),
			zap.String("username", username),
			zap.Bool("accepted", res.Accepted),
		)
	}()
}
