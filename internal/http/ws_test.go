package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/database"
	"bookcatalog/internal/database/books"
	"bookcatalog/internal/notifier"
)

func setupWSTest(t *testing.T) (*httptest.Server, *notifier.Notifier, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_ws_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	changes := notifier.New()
	ctx, cancel := context.WithCancel(context.Background())
	go changes.Run(ctx)

	repo := books.NewRepository(db.DB, changes)

	router := NewRouter(RouterConfig{
		BookStore: repo,
		Database:  db,
		Notifier:  changes,
		Version:   "test",
	})

	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		cancel()
		db.Close()
		os.Remove(dbPath)
	}
	return server, changes, cleanup
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

// waitForObservers polls until the notifier registry reaches the wanted
// size. The observer is registered just after the upgrade handshake, so a
// freshly dialed connection may not be subscribed yet.
func waitForObservers(t *testing.T, n *notifier.Notifier, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for n.ObserverCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("observer count never reached %d (now %d)", want, n.ObserverCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(message)
}

func TestWS_ClientReceivesSignalAfterCreate(t *testing.T) {
	server, changes, cleanup := setupWSTest(t)
	defer cleanup()

	conn := dialWS(t, server)
	defer conn.Close()
	waitForObservers(t, changes, 1)

	resp, err := http.Post(server.URL+"/api/books", "application/json",
		strings.NewReader(`{"title":"Dune","author":"Herbert","year":1965}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, `{"event":"books-updated"}`, readEvent(t, conn))
}

func TestWS_AllClientsReceiveSignal(t *testing.T) {
	server, changes, cleanup := setupWSTest(t)
	defer cleanup()

	first := dialWS(t, server)
	defer first.Close()
	second := dialWS(t, server)
	defer second.Close()
	waitForObservers(t, changes, 2)

	resp, err := http.Post(server.URL+"/api/books", "application/json",
		strings.NewReader(`{"title":"Dune","author":"Herbert"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, `{"event":"books-updated"}`, readEvent(t, first))
	assert.Equal(t, `{"event":"books-updated"}`, readEvent(t, second))
}

func TestWS_ClientCreatedMessageRebroadcasts(t *testing.T) {
	server, changes, cleanup := setupWSTest(t)
	defer cleanup()

	sender := dialWS(t, server)
	defer sender.Close()
	receiver := dialWS(t, server)
	defer receiver.Close()
	waitForObservers(t, changes, 2)

	// A client announcing an externally created book triggers the same
	// fan-out as a server-side mutation.
	err := sender.WriteMessage(websocket.TextMessage, []byte("book-created"))
	require.NoError(t, err)

	assert.Equal(t, `{"event":"books-updated"}`, readEvent(t, receiver))
}

func TestWS_UnknownClientMessageIsIgnored(t *testing.T) {
	server, changes, cleanup := setupWSTest(t)
	defer cleanup()

	conn := dialWS(t, server)
	defer conn.Close()
	waitForObservers(t, changes, 1)

	err := conn.WriteMessage(websocket.TextMessage, []byte("something-else"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "no broadcast expected for unknown messages")
}

func TestWS_DisconnectRemovesObserver(t *testing.T) {
	server, changes, cleanup := setupWSTest(t)
	defer cleanup()

	conn := dialWS(t, server)
	waitForObservers(t, changes, 1)

	conn.Close()
	waitForObservers(t, changes, 0)

	// A mutation after the disconnect still succeeds; delivery to the
	// departed client is simply skipped.
	resp, err := http.Post(server.URL+"/api/books", "application/json",
		strings.NewReader(`{"title":"Dune","author":"Herbert"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
