package sync

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SubscribersReceiveProgress(t *testing.T) {
	hub := NewHub()

	var serverConn *websocket.Conn
	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConn = conn
		hub.Register(conn)
		close(registered)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was never registered")
	}
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Progress("Clientes", 2, 4, 1)

	var ev ProgressEvent
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, client.ReadJSON(&ev))
	assert.Equal(t, "progress", ev.Type)
	assert.Equal(t, "Clientes", ev.Collection)
	assert.Equal(t, 2, ev.Done)
	assert.Equal(t, 4, ev.Total)
	assert.Equal(t, 1, ev.Failed)

	hub.Unregister(serverConn)
	assert.Equal(t, 0, hub.SubscriberCount())
}
