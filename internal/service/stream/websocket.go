package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"SignalDesk/internal/domain/models"
	drepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/logger"

	"github.com/gorilla/websocket"
)

// WSClient is a PushStream over a websocket carrying {"event","data"} frames.
// It reports connectivity as synthetic connect/disconnect events and redials
// after reconnectDelay until closed.
type WSClient struct {
	url            string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	dialer         *websocket.Dialer
	log            *logger.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}
	closed bool
}

// WSOption configures WSClient.
type WSOption func(*WSClient)

// WithReconnectDelay sets the pause between a lost connection and the next dial.
func WithReconnectDelay(d time.Duration) WSOption {
	return func(c *WSClient) {
		if d > 0 {
			c.reconnectDelay = d
		}
	}
}

// WithPingInterval sets the keepalive ping interval.
func WithPingInterval(d time.Duration) WSOption {
	return func(c *WSClient) {
		if d > 0 {
			c.pingInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) WSOption {
	return func(c *WSClient) {
		if l != nil {
			c.log = l
		}
	}
}

// NewWSClient creates a websocket push stream for url.
func NewWSClient(url string, opts ...WSOption) *WSClient {
	c := &WSClient{
		url:            url,
		reconnectDelay: 5 * time.Second,
		pingInterval:   30 * time.Second,
		dialer:         websocket.DefaultDialer,
		log:            logger.Nop(),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events starts the connection loop. Both channels are closed when ctx is
// done or Close is called.
func (c *WSClient) Events(ctx context.Context) (<-chan models.PushEvent, <-chan error) {
	events := make(chan models.PushEvent, 64)
	errs := make(chan error, 8)

	go func() {
		defer close(events)
		defer close(errs)
		for {
			conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
			if err != nil {
				c.report(errs, fmt.Errorf("ws dial: %w", err))
			} else {
				c.serve(ctx, conn, events, errs)
			}
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-time.After(c.reconnectDelay):
			}
		}
	}()

	return events, errs
}

// serve runs one connection until it fails or the stream stops.
func (c *WSClient) serve(ctx context.Context, conn *websocket.Conn, events chan<- models.PushEvent, errs chan<- error) {
	if !c.setConn(conn) {
		_ = conn.Close()
		return
	}
	c.log.Info("push stream connected", logger.String("url", c.url))
	if !c.emit(ctx, events, models.PushEvent{Name: models.EventConnect}) {
		c.dropConn()
		return
	}

	connDone := make(chan struct{})
	defer close(connDone)
	go c.pingLoop(conn, connDone)

	// unblock ReadMessage on shutdown
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-c.done:
		case <-connDone:
		}
	}()

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			c.dropConn()
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			default:
			}
			c.log.Warn("push stream disconnected", logger.Error(err))
			c.report(errs, fmt.Errorf("ws read: %w", err))
			c.emit(ctx, events, models.PushEvent{Name: models.EventDisconnect})
			return
		}
		var ev models.PushEvent
		if err := json.Unmarshal(b, &ev); err != nil || ev.Name == "" {
			c.report(errs, fmt.Errorf("ws frame dropped: %d bytes not a push event", len(b)))
			continue
		}
		if !c.emit(ctx, events, ev) {
			c.dropConn()
			return
		}
	}
}

func (c *WSClient) pingLoop(conn *websocket.Conn, connDone <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-connDone:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.pingInterval / 2)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) emit(ctx context.Context, events chan<- models.PushEvent, ev models.PushEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	case <-c.done:
		return false
	}
}

// report never blocks; errors are informational.
func (c *WSClient) report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}

func (c *WSClient) setConn(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.conn = conn
	return true
}

func (c *WSClient) dropConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Close stops the connection loop.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

var _ drepo.PushStream = (*WSClient)(nil)
