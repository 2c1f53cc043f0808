// Package realtime owns the single streaming connection to the backend's
// /ws-ais endpoint: STOMP frames over a websocket. It fans server-pushed
// topics out to the UI as typed events on a channel; payload deserialization
// stays with the consumer since shapes differ per topic.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Topics published by the backend.
const (
	TopicVesselUpdates   = "/topic/ais-updates"
	TopicZoneViolations  = "/user/queue/zone-violations"
	TopicCollisionAlerts = "/user/queue/collision-alerts"
)

// EventType discriminates transport events.
type EventType int

const (
	// EventConnected: the connection (re-)established. Consumers should
	// re-fetch snapshots — nothing was buffered during the gap.
	EventConnected EventType = iota
	// EventDisconnected: the connection dropped; reconnect is in progress.
	EventDisconnected
	// EventMessage: a payload arrived on a subscribed topic.
	EventMessage
)

// Event is one transport occurrence. Topic and Payload are set only for
// EventMessage.
type Event struct {
	Type    EventType
	Topic   string
	Payload []byte
}

// Transport maintains one authenticated streaming connection per session,
// reconnecting with a fixed delay until Close. Delivery is at-most-once: a
// full event buffer drops the message rather than blocking the read loop.
type Transport struct {
	url            string
	reconnectDelay time.Duration
	logger         zerolog.Logger

	mu        sync.Mutex
	running   bool
	events    chan Event      // replaced on Close; one channel per session
	conn      *websocket.Conn // nil while disconnected
	subs      map[string]int  // topic -> subscription id
	nextSubID int
	cancel    context.CancelFunc
}

// NewTransport creates a transport for the given websocket URL. No
// connection is attempted until Connect.
func NewTransport(url string, reconnectDelay time.Duration, logger zerolog.Logger) *Transport {
	return &Transport{
		url:            url,
		reconnectDelay: reconnectDelay,
		logger:         logger.With().Str("component", "realtime").Logger(),
		events:         make(chan Event, 256),
		subs:           make(map[string]int),
	}
}

// Events is the channel the transport emits on. Close closes it, so readers
// drain out; a later Connect emits on a fresh channel obtained from a fresh
// Events call.
func (t *Transport) Events() <-chan Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events
}

// Connect starts the connection loop. Idempotent: calling it while already
// connected or connecting is a no-op. Without a token it refuses silently
// (log only) — an unauthenticated client has nothing to subscribe to.
func (t *Transport) Connect(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	if token == "" {
		t.logger.Warn().Msg("connect skipped: no session token")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.running = true
	t.cancel = cancel
	go t.run(ctx, token, t.events)
}

// Connected reports whether the socket is currently up.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Subscribe registers interest in a topic and returns an unsubscribe handle.
// The subscription is (re-)issued to the broker on every successful connect;
// messages arrive as EventMessage on Events.
func (t *Transport) Subscribe(topic string) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subs[topic]; !ok {
		t.nextSubID++
		t.subs[topic] = t.nextSubID
		if t.conn != nil {
			t.writeFrameLocked(subscribeFrame(topic, t.subs[topic]))
		}
	}

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		id, ok := t.subs[topic]
		if !ok {
			return
		}
		delete(t.subs, topic)
		if t.conn != nil {
			t.writeFrameLocked(frame{
				Command: cmdUnsubscribe,
				Headers: map[string]string{"id": fmt.Sprintf("sub-%d", id)},
			})
		}
	}
}

// Close tears the connection down, releases all subscriptions and closes the
// session's event channel. A later Connect starts fresh; callers re-subscribe
// and re-read Events in their own lifecycle.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	t.cancel()
	t.subs = make(map[string]int)
	if t.conn != nil {
		t.writeFrameLocked(frame{Command: cmdDisconnect, Headers: map[string]string{}})
		t.conn.Close()
		t.conn = nil
	}
	close(t.events)
	t.events = make(chan Event, 256)
}

// run is the connection loop: dial, handshake, pump, reconnect after a fixed
// delay, until the context is canceled. events pins the channel this session
// emits on, so a goroutine outliving its Close cannot touch the next one.
func (t *Transport) run(ctx context.Context, token string, events chan Event) {
	for {
		conn, err := t.dial(ctx, token)
		if err != nil {
			t.logger.Warn().Err(err).Msg("connection attempt failed")
		} else {
			if !t.attach(conn) {
				return
			}
			t.emit(events, Event{Type: EventConnected})
			t.readLoop(conn, events)
			t.detach(conn)
			t.emit(events, Event{Type: EventDisconnected})
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(t.reconnectDelay):
		}
	}
}

// dial opens the websocket and performs the STOMP handshake.
func (t *Transport) dial(ctx context.Context, token string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", t.url, err)
	}

	connect := frame{
		Command: cmdConnect,
		Headers: map[string]string{
			"accept-version": "1.2",
			"host":           "/",
			"Authorization":  "Bearer " + token,
		},
	}
	if err := conn.WriteMessage(websocket.TextMessage, marshalFrame(connect)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sending CONNECT: %w", err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("awaiting CONNECTED: %w", err)
	}
	f, err := parseFrame(data)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	if f.Command != cmdConnected {
		conn.Close()
		return nil, fmt.Errorf("handshake: server answered %s", f.Command)
	}

	return conn, nil
}

// attach publishes the live connection and re-issues every registered
// subscription. Returns false if Close won the race, in which case the
// connection is discarded.
func (t *Transport) attach(conn *websocket.Conn) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		conn.Close()
		return false
	}
	t.conn = conn
	for topic, id := range t.subs {
		t.writeFrameLocked(subscribeFrame(topic, id))
	}
	return true
}

func (t *Transport) detach(conn *websocket.Conn) {
	conn.Close()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == conn {
		t.conn = nil
	}
}

// readLoop pumps frames until the connection errors. Malformed frames are
// logged and dropped; they must never kill the subscription.
func (t *Transport) readLoop(conn *websocket.Conn, events chan Event) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.logger.Warn().Err(err).Msg("connection lost")
			}
			return
		}

		f, err := parseFrame(data)
		if err == errHeartbeat {
			continue
		}
		if err != nil {
			t.logger.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}

		switch f.Command {
		case cmdMessage:
			t.emit(events, Event{
				Type:    EventMessage,
				Topic:   f.Headers["destination"],
				Payload: f.Body,
			})
		case cmdError:
			t.logger.Warn().Str("message", f.Headers["message"]).Msg("broker error frame")
		default:
			t.logger.Debug().Str("command", f.Command).Msg("ignoring frame")
		}
	}
}

// emit delivers an event without ever blocking the read loop. Events from a
// session already torn down by Close are dropped: its channel is closed and
// t.events points at the next session's.
func (t *Transport) emit(events chan Event, ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if events != t.events {
		return
	}
	select {
	case events <- ev:
	default:
		t.logger.Warn().Str("topic", ev.Topic).Msg("event buffer full, dropping")
	}
}

// writeFrameLocked writes a frame on the current connection. Callers hold
// t.mu, which doubles as the write serializer.
func (t *Transport) writeFrameLocked(f frame) {
	if t.conn == nil {
		return
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, marshalFrame(f)); err != nil {
		t.logger.Warn().Err(err).Str("command", f.Command).Msg("write failed")
	}
}

func subscribeFrame(topic string, id int) frame {
	return frame{
		Command: cmdSubscribe,
		Headers: map[string]string{
			"id":          fmt.Sprintf("sub-%d", id),
			"destination": topic,
			"ack":         "auto",
		},
	}
}
