package ws

import (
	"time"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

// scheduleAdvance lets the revealed value stay on screen for the
// mode's delay, then starts the next round. The generation token was
// captured at reveal time; a reset or time-up in between makes the
// advance a no-op on stale state.
func (h *Hub) scheduleAdvance(sess *game.Session, gen int64, delay time.Duration) {
	time.Sleep(delay)

	if !sess.Advance(gen) {
		return
	}
	h.Broadcast(sess.Code, Envelope{Type: "session_state", Payload: sess.Snapshot()})
}

// watchCountdown turns countdown expiry into the session's TIME_UP
// transition. An in-flight delayed advance may still be sleeping when
// this fires; the generation bump inside TimeUp invalidates it.
func (h *Hub) watchCountdown(sess *game.Session, cd *game.Countdown) {
	<-cd.Done()

	if !sess.TimeUp() {
		return
	}

	snap := sess.Snapshot()
	h.Broadcast(sess.Code, Envelope{Type: "time_up", Payload: snap})
	h.Broadcast(sess.Code, Envelope{Type: "game_over", Payload: snap})
	h.submitScore(sess.Code, sess.Mode, snap.Score)
}
