package events

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/config"
	"github.com/astrokit/ninaclient/logging"
	"github.com/astrokit/ninaclient/monitoring"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// Client maintains the four logical channels over independent socket
// connections. Channels connect, fail, and reconnect in isolation from
// one another.
type Client struct {
	cfg     config.SocketConfig
	log     *logging.Logger
	metrics *monitoring.Metrics
	dialer  *websocket.Dialer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	channels map[string]*channel
	closed   bool

	subMu   sync.RWMutex
	subs    map[int]chan Event
	nextSub int
}

// New creates an event socket client for the configured base URL. Nothing
// connects until ConnectAll or Connect is called.
func New(cfg config.SocketConfig, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := strings.TrimRight(cfg.BaseURL, "/")
	channels := make(map[string]*channel, len(Channels()))
	for _, name := range Channels() {
		channels[name] = newChannel(name, base, cfg.EventQueueSize)
	}

	return &Client{
		cfg:     cfg,
		log:     log.Named("events"),
		metrics: metrics,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   cfg.ReceiveBufferBytes,
			WriteBufferSize:  cfg.ReceiveBufferBytes,
		},
		ctx:      ctx,
		cancel:   cancel,
		channels: channels,
		subs:     make(map[int]chan Event),
	}
}

// ConnectAll attempts to open every channel concurrently. It returns the
// combined per-channel errors; channels that did connect stay open and are
// visible through StatusMap.
func (c *Client) ConnectAll(ctx context.Context) error {
	names := Channels()
	errs := make([]error, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			errs[i] = c.Connect(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Connect opens a single channel. Connecting an already-open channel, or
// one with a dial already in flight, is a no-op; a channel that previously
// gave up gets a fresh reconnect budget. Dialing is exclusive per channel
// so at most one connection is ever live.
func (c *Client) Connect(ctx context.Context, name string) error {
	ch, err := c.channel(name)
	if err != nil {
		return err
	}

	ch.mu.Lock()
	switch ch.status {
	case StatusConnected, StatusConnecting, StatusReconnecting:
		ch.mu.Unlock()
		return nil
	}
	ch.status = StatusConnecting
	ch.mu.Unlock()

	if err := c.dialChannel(ctx, ch); err != nil {
		ch.setStatus(StatusDisconnected)
		return err
	}
	return nil
}

// dialChannel establishes a connection for ch and starts its loops.
func (c *Client) dialChannel(ctx context.Context, ch *channel) error {
	conn, resp, err := c.dialer.DialContext(ctx, ch.url, nil)
	if err != nil {
		if resp != nil {
			return apierr.Wrap(apierr.KindHTTPStatus, "websocket handshake rejected for "+ch.name, err)
		}
		if errors.Is(err, context.Canceled) {
			return apierr.Wrap(apierr.KindCanceled, "dial canceled for "+ch.name, err)
		}
		return apierr.Wrap(apierr.KindConnection, "dial failed for "+ch.name, err)
	}

	stop := ch.adopt(conn)
	c.metrics.IncWSConnections()
	c.log.Info("channel connected",
		zap.String("channel", ch.name),
		zap.String("conn_id", ch.connID()),
	)

	ch.consumerOnce.Do(func() {
		c.wg.Add(1)
		go c.consume(ch)
	})

	c.wg.Add(2)
	go c.receiveLoop(ch, conn)
	go c.keepAlive(ch, conn, stop)
	return nil
}

// receiveLoop reads frames from one connection until it closes or drops.
// A peer-initiated close ends the loop; a transport error hands the
// channel to the reconnect routine.
func (c *Client) receiveLoop(ch *channel, conn *websocket.Conn) {
	defer c.wg.Done()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			c.metrics.DecWSConnections()
			if !ch.isCurrent(conn) {
				// A newer connection superseded this one; its own loops
				// carry the channel from here.
				return
			}
			if c.isClosed() {
				ch.setStatus(StatusDisconnected)
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("channel closed by peer", zap.String("channel", ch.name))
				ch.setStatus(StatusDisconnected)
				return
			}
			c.log.Warn("channel connection lost",
				zap.String("channel", ch.name),
				zap.Error(err),
			)
			c.wg.Add(1)
			go c.reconnect(ch)
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}
		c.metrics.RecordWSMessage(ch.name, "in")

		select {
		case ch.queue <- inbound{data: data, receivedAt: time.Now()}:
		default:
			c.metrics.RecordWSDropped(ch.name)
			c.log.Warn("event queue full, dropping message", zap.String("channel", ch.name))
		}
	}
}

// consume drains one channel's queue in receipt order and dispatches
// parsed events to subscribers. One consumer per channel, for the life of
// the client.
func (c *Client) consume(ch *channel) {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-ch.queue:
			name, payload, ok := parseMessage(msg.data)
			if !ok {
				c.log.Debug("unparseable message", zap.String("channel", ch.name))
				continue
			}
			typ, decoded := resolve(name, payload)
			c.dispatch(Event{
				Type:       typ,
				Channel:    ch.name,
				Payload:    decoded,
				Raw:        msg.data,
				ReceivedAt: msg.receivedAt,
			})
		}
	}
}

// dispatch fans an event out to subscribers without blocking the consumer.
func (c *Client) dispatch(evt Event) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subs {
		select {
		case sub <- evt:
		default:
			c.log.Warn("subscriber lagging, dropping event",
				zap.String("channel", evt.Channel),
				zap.String("type", string(evt.Type)),
			)
		}
	}
}

// keepAlive pings the connection until it is torn down. A failed ping
// closes the connection, which surfaces in the receive loop.
func (c *Client) keepAlive(ch *channel, conn *websocket.Conn, stop chan struct{}) {
	defer c.wg.Done()

	interval := c.cfg.KeepAlive()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.log.Debug("keepalive failed", zap.String("channel", ch.name), zap.Error(err))
				_ = conn.Close()
				return
			}
		}
	}
}

// reconnect tears the dead connection down and retries with a fixed delay,
// bounded by the channel's own attempt budget.
func (c *Client) reconnect(ch *channel) {
	defer c.wg.Done()

	ch.setStatus(StatusReconnecting)
	ch.teardown()

	for {
		if c.isClosed() {
			ch.setStatus(StatusDisconnected)
			return
		}
		attempt := ch.bumpReconnects()
		if attempt > c.cfg.MaxReconnectAttempts {
			ch.setStatus(StatusGivenUp)
			c.metrics.RecordWSReconnect(ch.name, "gave_up")
			c.log.Error("reconnect budget exhausted",
				zap.String("channel", ch.name),
				zap.Int("attempts", c.cfg.MaxReconnectAttempts),
			)
			return
		}

		select {
		case <-c.ctx.Done():
			ch.setStatus(StatusDisconnected)
			return
		case <-time.After(c.cfg.ReconnectDelay()):
		}

		// Abort if another path already carried the channel elsewhere.
		if _, status := ch.snapshot(); status != StatusReconnecting {
			return
		}

		if err := c.dialChannel(c.ctx, ch); err != nil {
			c.metrics.RecordWSReconnect(ch.name, "failure")
			c.log.Warn("reconnect attempt failed",
				zap.String("channel", ch.name),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		c.metrics.RecordWSReconnect(ch.name, "success")
		c.log.Info("channel reconnected", zap.String("channel", ch.name))
		return
	}
}

// Send writes a payload as a text frame on the named channel. It fails if
// the channel is not currently connected; other channels are unaffected.
func (c *Client) Send(ctx context.Context, name string, payload any) error {
	ch, err := c.channel(name)
	if err != nil {
		return err
	}

	conn, status := ch.snapshot()
	if status != StatusConnected || conn == nil {
		return apierr.Newf(apierr.KindConnection, "channel %s is %s", name, status)
	}

	data, err := sonic.Marshal(payload)
	if err != nil {
		return apierr.Wrap(apierr.KindParse, "payload not serializable", err)
	}

	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return apierr.Wrap(apierr.KindConnection, "write failed on "+name, err)
	}
	c.metrics.RecordWSMessage(name, "out")
	return nil
}

// Subscribe registers an event sink and returns it with a cancel function.
// Slow subscribers drop events rather than stalling dispatch.
func (c *Client) Subscribe() (<-chan Event, func()) {
	sink := make(chan Event, c.cfg.EventQueueSize)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sink
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sink)
		}
		c.subMu.Unlock()
	}
	return sink, cancel
}

// Status returns the state of one channel.
func (c *Client) Status(name string) Status {
	ch, err := c.channel(name)
	if err != nil {
		return StatusDisconnected
	}
	_, status := ch.snapshot()
	return status
}

// StatusMap returns the per-channel connection states. Callers that care
// about partial failure should use this rather than IsConnected.
func (c *Client) StatusMap() map[string]Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	statuses := make(map[string]Status, len(c.channels))
	for name, ch := range c.channels {
		_, status := ch.snapshot()
		statuses[name] = status
	}
	return statuses
}

// IsConnected reports whether any channel is open. It is a coarse
// aggregate; see StatusMap for per-channel state.
func (c *Client) IsConnected() bool {
	for _, status := range c.StatusMap() {
		if status == StatusConnected {
			return true
		}
	}
	return false
}

// DisconnectAll closes every channel, waits for all loops to finish, and
// clears the channel map. The client cannot be reused afterwards.
func (c *Client) DisconnectAll() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	channels := c.channels
	c.mu.Unlock()

	c.cancel()
	for _, ch := range channels {
		ch.teardown()
		ch.setStatus(StatusDisconnected)
	}
	c.wg.Wait()

	c.subMu.Lock()
	for id, sub := range c.subs {
		delete(c.subs, id)
		close(sub)
	}
	c.subMu.Unlock()

	c.mu.Lock()
	c.channels = make(map[string]*channel)
	c.mu.Unlock()
}

// channel resolves a channel by name.
func (c *Client) channel(name string) (*channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, apierr.New(apierr.KindDisposed, "event client is closed")
	}
	ch, ok := c.channels[name]
	if !ok {
		return nil, apierr.Newf(apierr.KindConnection, "unknown channel %q", name)
	}
	return ch, nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
