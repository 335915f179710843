package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer upgrades one connection and hands it to fn.
func testServer(t *testing.T, fn func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fn(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel event")
		return Event{}
	}
}

func TestChannel_SubscribesAndEmitsConnect(t *testing.T) {
	subscribed := make(chan subscribeIntent, 1)
	url := testServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		var intent subscribeIntent
		if err := conn.ReadJSON(&intent); err == nil {
			subscribed <- intent
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := New(url)
	ch.Start(ctx)

	ev := waitEvent(t, ch.Events())
	assert.Equal(t, EventConnect, ev.Type)

	select {
	case intent := <-subscribed:
		assert.Equal(t, "subscribe_updates", intent.Action)
	case <-time.After(3 * time.Second):
		t.Fatal("server never received the subscribe handshake")
	}
	assert.Equal(t, Connected, ch.State())
}

func TestChannel_DispatchesUpdateWithTag(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		conn.ReadMessage() // subscribe handshake
		conn.WriteJSON(wireMessage{
			Type: "update",
			Tag:  "system-stats",
			Data: json.RawMessage(`{"cpu": 12.5}`),
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := New(url)
	ch.Start(ctx)

	require.Equal(t, EventConnect, waitEvent(t, ch.Events()).Type)

	ev := waitEvent(t, ch.Events())
	assert.Equal(t, EventUpdate, ev.Type)
	assert.Equal(t, "system-stats", ev.Tag)
	assert.JSONEq(t, `{"cpu": 12.5}`, string(ev.Data))
}

func TestChannel_DispatchesNewActivity(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		conn.ReadMessage()
		conn.WriteJSON(wireMessage{
			Type: "new_activity",
			Data: json.RawMessage(`{"type": "success", "message": "deploy finished"}`),
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := New(url)
	ch.Start(ctx)

	require.Equal(t, EventConnect, waitEvent(t, ch.Events()).Type)

	ev := waitEvent(t, ch.Events())
	assert.Equal(t, EventNewActivity, ev.Type)
	assert.Equal(t, "deploy finished", ev.Activity.Message)
	assert.False(t, ev.Activity.Time.IsZero(), "entries without a timestamp default to now")
}

func TestChannel_EmitsDisconnectWhenServerCloses(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		conn.ReadMessage()
		conn.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := New(url)
	ch.Start(ctx)

	require.Equal(t, EventConnect, waitEvent(t, ch.Events()).Type)
	assert.Equal(t, EventDisconnect, waitEvent(t, ch.Events()).Type)
}

func TestChannel_IgnoresUnknownFrameTypes(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		conn.ReadMessage()
		conn.WriteJSON(wireMessage{Type: "mystery"})
		conn.WriteJSON(wireMessage{Type: "update", Tag: "ideas"})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := New(url)
	ch.Start(ctx)

	require.Equal(t, EventConnect, waitEvent(t, ch.Events()).Type)

	// The unknown frame is dropped; the next event is the tagged update.
	ev := waitEvent(t, ch.Events())
	assert.Equal(t, EventUpdate, ev.Type)
	assert.Equal(t, "ideas", ev.Tag)
}
