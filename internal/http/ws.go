package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"bookcatalog/internal/notifier"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// changedEvent is the payload-free signal pushed to connected clients after
// every successful mutation. Clients re-fetch the list on receipt.
var changedEvent = []byte(`{"event":"books-updated"}`)

// createdMessage is the optional client-to-server signal meaning "I created
// a book through some other channel"; the server re-broadcasts it to
// everyone else the same way it broadcasts its own mutations.
const createdMessage = "book-created"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is open to any origin, matching the CORS policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSController upgrades connections onto the push channel and bridges each
// one to an observer registered with the notifier.
type WSController struct {
	notifier *notifier.Notifier
}

func NewWSController(n *notifier.Notifier) *WSController {
	return &WSController{notifier: n}
}

// Handle serves the push channel.
// GET /ws
func (wc *WSController) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	obs := wc.notifier.Subscribe()
	log.Printf("websocket client connected (%d observers)", wc.notifier.ObserverCount())

	go wc.writePump(conn, obs)
	wc.readPump(conn, obs)
}

// readPump consumes client messages until the connection drops. Dropping
// the connection unsubscribes the observer, which also terminates the write
// pump through the closed signal channel.
func (wc *WSController) readPump(conn *websocket.Conn, obs *notifier.Observer) {
	defer func() {
		wc.notifier.Unsubscribe(obs)
		conn.Close()
		log.Printf("websocket client disconnected (%d observers)", wc.notifier.ObserverCount())
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if string(message) == createdMessage {
			wc.notifier.Publish()
		}
	}
}

// writePump forwards change signals to the peer and keeps the connection
// alive with pings. It exits when the observer is unsubscribed or a write
// fails; either way the connection is closed, which unblocks readPump.
func (wc *WSController) writePump(conn *websocket.Conn, obs *notifier.Observer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case _, ok := <-obs.C:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, changedEvent); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
