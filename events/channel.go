package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// inbound is one received frame queued for dispatch.
type inbound struct {
	data       []byte
	receivedAt time.Time
}

// channel is one logical channel: a name, at most one live connection, and
// a bounded in-order dispatch queue drained by a single consumer.
type channel struct {
	name string
	id   string
	url  string

	// queue decouples dispatch from the receive loop while preserving
	// in-channel order.
	queue        chan inbound
	consumerOnce sync.Once

	// writeMu serializes data frames on the current connection.
	writeMu sync.Mutex

	mu         sync.Mutex
	conn       *websocket.Conn
	status     Status
	reconnects int
	pingStop   chan struct{}
}

func newChannel(name, baseURL string, queueSize int) *channel {
	return &channel{
		name:   name,
		id:     uuid.NewString(),
		url:    baseURL + name,
		queue:  make(chan inbound, queueSize),
		status: StatusDisconnected,
	}
}

// snapshot returns the current connection and status.
func (ch *channel) snapshot() (*websocket.Conn, Status) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.conn, ch.status
}

func (ch *channel) setStatus(status Status) {
	ch.mu.Lock()
	ch.status = status
	ch.mu.Unlock()
}

// adopt installs a freshly dialed connection, retiring any previous one so
// a channel never holds two live connections, and resets the reconnect
// budget. Each physical connection gets a fresh id. Returns the ping-stop
// channel bound to the new connection.
func (ch *channel) adopt(conn *websocket.Conn) chan struct{} {
	stop := make(chan struct{})
	ch.mu.Lock()
	prev := ch.conn
	prevStop := ch.pingStop
	ch.conn = conn
	ch.id = uuid.NewString()
	ch.status = StatusConnected
	ch.reconnects = 0
	ch.pingStop = stop
	ch.mu.Unlock()

	if prevStop != nil {
		close(prevStop)
	}
	if prev != nil {
		_ = prev.Close()
	}
	return stop
}

// isCurrent reports whether conn is still the channel's live connection.
func (ch *channel) isCurrent(conn *websocket.Conn) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.conn == conn
}

// connID returns the id of the current connection.
func (ch *channel) connID() string {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.id
}

// bumpReconnects increments and returns the per-channel attempt counter.
func (ch *channel) bumpReconnects() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.reconnects++
	return ch.reconnects
}

// teardown fully disposes the current connection, if any, before a new one
// may be established. Close errors are swallowed; the connection is gone
// either way.
func (ch *channel) teardown() {
	ch.mu.Lock()
	conn := ch.conn
	stop := ch.pingStop
	ch.conn = nil
	ch.pingStop = nil
	ch.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
}
