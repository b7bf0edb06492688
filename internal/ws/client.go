package ws

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Ayush-Khandelwal28/higherlowergame/internal/game"
)

type Client struct {
	hub      *Hub
	code     string
	username string
	conn     *websocket.Conn
	send     chan []byte
}

func (c *Client) sendJSON(env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		c.hub.log.Error("ws send marshal failed",
			zap.String("session", c.code),
			zap.Error(err),
		)
		return
	}
	select {
	case c.send <- b:
	default:
		c.hub.unregister <- c
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON(Envelope{Type: "error", Payload: map[string]string{"message": message}})
}

func (c *Client) readPump(sess *game.Session) {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()

		c.hub.log.Info("ws connection closed",
			zap.String("session", c.code),
			zap.String("username", c.username),
		)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.hub.log.Warn("ws read failed",
				zap.String("session", c.code),
				zap.Error(err),
			)
			break
		}

		switch msg.Type {
		case "guess":
			var p GuessPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.sendError("bad payload")
				continue
			}
			c.handleOutcome(sess)(sess.Guess(game.Choice(p.Choice)))

		case "pick":
			var p PickPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.sendError("bad payload")
				continue
			}
			c.handleOutcome(sess)(sess.Pick(game.Side(p.Side)))

		case "reset":
			sess.Reset()
			c.hub.resetCountdown(sess)
			c.hub.Broadcast(c.code, Envelope{Type: "session_state", Payload: sess.Snapshot()})

		default:
			c.hub.log.Warn("unknown ws message type",
				zap.String("session", c.code),
				zap.String("type", msg.Type),
			)
			c.sendError("unknown message type")
		}
	}
}

// handleOutcome applies one guess result: broadcast the reveal, then
// either schedule the next round or finish the game.
func (c *Client) handleOutcome(sess *game.Session) func(game.Result, error) {
	return func(_ game.Result, err error) {
		if err != nil {
			if errors.Is(err, game.ErrAlreadyPicked) || errors.Is(err, game.ErrSessionOver) {
				// Re-entry during reveal or after the end is just a
				// late click; tell only this client.
				c.sendError(err.Error())
				return
			}
			c.hub.log.Warn("guess rejected",
				zap.String("session", c.code),
				zap.Error(err),
			)
			c.sendError(err.Error())
			return
		}

		snap := sess.Snapshot()
		c.hub.Broadcast(c.code, Envelope{Type: "reveal", Payload: snap})

		if snap.GameOver {
			c.hub.Broadcast(c.code, Envelope{Type: "game_over", Payload: snap})
			c.hub.submitScore(c.code, sess.Mode, snap.Score)
			return
		}

		gen := sess.Generation()
		go c.hub.scheduleAdvance(sess, gen, sess.Rules().RevealDelay)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Warn("ws write failed",
					zap.String("session", c.code),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
