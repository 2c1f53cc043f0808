package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBroker is a minimal STOMP-over-websocket endpoint for tests.
type fakeBroker struct {
	server   *httptest.Server
	upgrades atomic.Int32
	handle   func(conn *websocket.Conn)
}

func newFakeBroker(t *testing.T, handle func(conn *websocket.Conn)) *fakeBroker {
	t.Helper()
	b := &fakeBroker{handle: handle}
	upgrader := websocket.Upgrader{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		b.upgrades.Add(1)
		b.handle(conn)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBroker) wsURL() string {
	return "ws" + strings.TrimPrefix(b.server.URL, "http")
}

// handshake consumes the CONNECT frame and answers CONNECTED. Returns the
// token the client presented.
func handshake(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	f, err := parseFrame(data)
	require.NoError(t, err)
	require.Equal(t, cmdConnect, f.Command)

	err = conn.WriteMessage(websocket.TextMessage,
		marshalFrame(frame{Command: cmdConnected, Headers: map[string]string{"version": "1.2"}}))
	require.NoError(t, err)
	return strings.TrimPrefix(f.Headers["Authorization"], "Bearer ")
}

// awaitSubscribe reads frames until a SUBSCRIBE for topic arrives.
func awaitSubscribe(t *testing.T, conn *websocket.Conn, topic string) {
	t.Helper()
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		f, err := parseFrame(data)
		require.NoError(t, err)
		if f.Command == cmdSubscribe && f.Headers["destination"] == topic {
			return
		}
	}
}

func sendMessage(conn *websocket.Conn, topic string, body string) error {
	return conn.WriteMessage(websocket.TextMessage, marshalFrame(frame{
		Command: cmdMessage,
		Headers: map[string]string{"destination": topic, "subscription": "sub-1"},
		Body:    []byte(body),
	}))
}

func awaitEvent(t *testing.T, tr *Transport, want EventType) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-tr.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event type %d", want)
		}
	}
}

func TestConnectRefusedWithoutToken(t *testing.T) {
	broker := newFakeBroker(t, func(conn *websocket.Conn) { conn.Close() })

	tr := NewTransport(broker.wsURL(), 50*time.Millisecond, zerolog.Nop())
	tr.Connect("")

	time.Sleep(100 * time.Millisecond)
	assert.False(t, tr.Connected())
	assert.Equal(t, int32(0), broker.upgrades.Load(), "no dial without a token")
}

func TestSubscribeAndReceive(t *testing.T) {
	broker := newFakeBroker(t, nil)
	broker.handle = func(conn *websocket.Conn) {
		defer conn.Close()
		token := handshake(t, conn)
		assert.Equal(t, "tok-1", token)
		awaitSubscribe(t, conn, TopicVesselUpdates)
		require.NoError(t, sendMessage(conn, TopicVesselUpdates, `{"mmsi":"100"}`))
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}

	tr := NewTransport(broker.wsURL(), 50*time.Millisecond, zerolog.Nop())
	defer tr.Close()

	tr.Subscribe(TopicVesselUpdates)
	tr.Connect("tok-1")

	awaitEvent(t, tr, EventConnected)
	ev := awaitEvent(t, tr, EventMessage)
	assert.Equal(t, TopicVesselUpdates, ev.Topic)
	assert.JSONEq(t, `{"mmsi":"100"}`, string(ev.Payload))
}

func TestConnectIdempotent(t *testing.T) {
	broker := newFakeBroker(t, func(conn *websocket.Conn) {
		handshake(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	})

	tr := NewTransport(broker.wsURL(), 50*time.Millisecond, zerolog.Nop())
	defer tr.Close()

	tr.Connect("tok")
	awaitEvent(t, tr, EventConnected)
	tr.Connect("tok")
	tr.Connect("tok")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), broker.upgrades.Load(), "Connect while connected must be a no-op")
}

func TestMalformedFrameDoesNotKillSubscription(t *testing.T) {
	broker := newFakeBroker(t, nil)
	broker.handle = func(conn *websocket.Conn) {
		defer conn.Close()
		handshake(t, conn)
		awaitSubscribe(t, conn, TopicZoneViolations)
		conn.WriteMessage(websocket.TextMessage, []byte("GARBAGE-NO-TERMINATOR"))
		require.NoError(t, sendMessage(conn, TopicZoneViolations, `{"mmsi":"1","constraintType":"entry-notify"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}

	tr := NewTransport(broker.wsURL(), 50*time.Millisecond, zerolog.Nop())
	defer tr.Close()

	tr.Subscribe(TopicZoneViolations)
	tr.Connect("tok")

	ev := awaitEvent(t, tr, EventMessage)
	assert.Equal(t, TopicZoneViolations, ev.Topic)
}

func TestReconnectWithFixedDelay(t *testing.T) {
	subscribes := make(chan string, 8)
	broker := newFakeBroker(t, nil)
	broker.handle = func(conn *websocket.Conn) {
		handshake(t, conn)
		first := broker.upgrades.Load() == 1
		if first {
			// Drop the first connection right after the handshake.
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if f, err := parseFrame(data); err == nil && f.Command == cmdSubscribe {
				subscribes <- f.Headers["destination"]
			}
		}
	}

	tr := NewTransport(broker.wsURL(), 20*time.Millisecond, zerolog.Nop())
	defer tr.Close()

	tr.Subscribe(TopicVesselUpdates)
	tr.Connect("tok")

	awaitEvent(t, tr, EventConnected)
	awaitEvent(t, tr, EventDisconnected)
	awaitEvent(t, tr, EventConnected)

	assert.GreaterOrEqual(t, broker.upgrades.Load(), int32(2))

	select {
	case topic := <-subscribes:
		assert.Equal(t, TopicVesselUpdates, topic, "subscription re-issued after reconnect")
	case <-time.After(3 * time.Second):
		t.Fatal("no SUBSCRIBE after reconnect")
	}
}

func TestCloseEndsEventStream(t *testing.T) {
	broker := newFakeBroker(t, func(conn *websocket.Conn) {
		handshake(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	})

	tr := NewTransport(broker.wsURL(), 20*time.Millisecond, zerolog.Nop())
	tr.Connect("tok")
	awaitEvent(t, tr, EventConnected)

	events := tr.Events()
	tr.Close()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return // readers drain out instead of blocking forever
			}
		case <-deadline:
			t.Fatal("events channel still open after Close")
		}
	}
}

func TestConnectAfterCloseUsesFreshChannel(t *testing.T) {
	broker := newFakeBroker(t, func(conn *websocket.Conn) {
		handshake(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	})

	tr := NewTransport(broker.wsURL(), 20*time.Millisecond, zerolog.Nop())
	tr.Connect("tok-1")
	awaitEvent(t, tr, EventConnected)

	stale := tr.Events()
	tr.Close()

	tr.Connect("tok-2")
	defer tr.Close()
	awaitEvent(t, tr, EventConnected)

	// The second session must not revive the first session's channel.
	assert.NotEqual(t, stale, tr.Events())
}

func TestCloseReleasesSubscriptions(t *testing.T) {
	broker := newFakeBroker(t, func(conn *websocket.Conn) {
		handshake(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	})

	tr := NewTransport(broker.wsURL(), 20*time.Millisecond, zerolog.Nop())
	tr.Subscribe(TopicVesselUpdates)
	tr.Connect("tok")
	awaitEvent(t, tr, EventConnected)

	tr.Close()
	time.Sleep(100 * time.Millisecond)
	assert.False(t, tr.Connected())

	// Close is idempotent.
	tr.Close()
}
