// Package push maintains the real-time event subscription to the server.
// It owns the websocket transport: dialing, the subscribe handshake,
// keepalive pings, and reconnection with backoff. The layers above only see
// connect/disconnect transitions and decoded events; nothing is buffered or
// replayed across a disconnect; this is a live tail, not a log.
package push

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/log"
)

// EventType classifies channel events delivered to the app.
type EventType int

const (
	// EventConnect fires when the transport comes up and the subscribe
	// intent has been sent.
	EventConnect EventType = iota
	// EventDisconnect fires on transport loss. Events missed while down are
	// permanently lost.
	EventDisconnect
	// EventUpdate is a generic state delta with a tag naming its payload
	// (e.g. "system-stats").
	EventUpdate
	// EventNewActivity is a discrete activity-log entry. It has two
	// consumers: the log store and the toast surface.
	EventNewActivity
)

// Event is one decoded channel event.
type Event struct {
	Type     EventType
	Tag      string
	Data     json.RawMessage
	Activity api.LogEntry
}

// State is the channel's connection state.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

const (
	reconnectDelay = 3 * time.Second
	pingInterval   = 20 * time.Second
	writeTimeout   = 5 * time.Second
	eventBuffer    = 64
)

// wireMessage is the inbound frame shape.
type wireMessage struct {
	Type string          `json:"type"`
	Tag  string          `json:"tag,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// subscribeIntent is the outbound handshake sent on every (re)connect.
type subscribeIntent struct {
	Action string `json:"action"`
}

// Channel is a reconnecting websocket subscription.
type Channel struct {
	url    string
	events chan Event
	state  atomic.Int32
	dialer *websocket.Dialer
}

// New builds a channel for the given websocket URL. Call Start to connect.
func New(url string) *Channel {
	return &Channel{
		url:    url,
		events: make(chan Event, eventBuffer),
		dialer: websocket.DefaultDialer,
	}
}

// Events is the stream the app consumes. The channel drops events when the
// consumer falls behind rather than blocking the read loop.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// State returns the current connection state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Start runs the dial/read loop until ctx is cancelled. It returns
// immediately; all work happens in a background goroutine.
func (c *Channel) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Channel) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		c.state.Store(int32(Connecting))
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.state.Store(int32(Disconnected))
			log.WarningLog.Printf("push: dial %s: %v", c.url, err)
			if !sleepCtx(ctx, reconnectDelay) {
				return
			}
			continue
		}

		c.session(ctx, conn)

		c.state.Store(int32(Disconnected))
		c.emit(Event{Type: EventDisconnect})
		if !sleepCtx(ctx, reconnectDelay) {
			return
		}
	}
}

// session drives one connected websocket until it breaks or ctx ends.
func (c *Channel) session(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(subscribeIntent{Action: "subscribe_updates"}); err != nil {
		log.WarningLog.Printf("push: subscribe: %v", err)
		return
	}

	c.state.Store(int32(Connected))
	c.emit(Event{Type: EventConnect})

	// Keepalive pings until the session ends.
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-ticker.C:
				deadline := time.Now().Add(writeTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	// Close the connection when ctx ends so the blocked read returns.
	go func() {
		<-pingCtx.Done()
		conn.Close()
	}()

	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WarningLog.Printf("push: read: %v", err)
			}
			return
		}
		c.dispatch(msg)
	}
}

// dispatch decodes one wire frame into an Event.
func (c *Channel) dispatch(msg wireMessage) {
	switch msg.Type {
	case "update":
		c.emit(Event{Type: EventUpdate, Tag: msg.Tag, Data: msg.Data})
	case "new_activity":
		var entry api.LogEntry
		if err := json.Unmarshal(msg.Data, &entry); err != nil {
			log.WarningLog.Printf("push: bad activity payload: %v", err)
			return
		}
		if entry.Time.IsZero() {
			entry.Time = time.Now()
		}
		c.emit(Event{Type: EventNewActivity, Activity: entry})
	default:
		log.WarningLog.Printf("push: unknown event type %q", msg.Type)
	}
}

func (c *Channel) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		// Consumer is behind; drop rather than stall the read loop.
		log.WarningLog.Printf("push: dropping event, consumer behind")
	}
}

// sleepCtx sleeps d or returns false when ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
