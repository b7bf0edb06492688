package ws

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS attaches a connection to an existing session. The username
// comes from the identity boundary and may be empty for anonymous
// play (no leaderboard submission then).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, code string, username string) {
	sess, ok := h.games.GetSession(code)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &Client{
		hub:      h,
		code:     strings.ToUpper(code),
		username: username,
		conn:     conn,
		send:     make(chan []byte, 64),
	}

	h.register <- client
	go client.writePump()

	h.ensureCountdown(sess)
	client.sendJSON(Envelope{Type: "session_state", Payload: sess.Snapshot()})

	client.readPump(sess)
}
