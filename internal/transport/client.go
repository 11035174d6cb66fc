// Package transport is the live channel to the experiment backend: snapshots
// come in, operations go out, both as JSON text frames over a websocket.
package transport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	pkgerrors "github.com/pkg/errors"

	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/internal/operation"
)

var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
)

// Client keeps one websocket to the backend open, reconnecting with backoff
// until its context ends. Outbound operations are never queued: Send on a
// dropped connection fails with ErrNotConnected.
type Client struct {
	cfg       Config
	sessionID string
	log       logger.Interface

	frames chan []byte
	errs   chan error
	done   chan struct{}
	once   sync.Once

	writeMu sync.Mutex

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	closed    bool
}

// NewClient creates a client. sessionID is sent on every handshake.
func NewClient(cfg Config, sessionID string, log logger.Interface) *Client {
	def := DefaultConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = def.MinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = cfg.MinBackoff
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		cfg:       cfg,
		sessionID: sessionID,
		log:       log,
		frames:    make(chan []byte, cfg.BufferSize),
		errs:      make(chan error, 8),
		done:      make(chan struct{}),
	}
}

// Snapshots returns the raw inbound frames.
func (c *Client) Snapshots() <-chan []byte { return c.frames }

// Errors returns connection errors. Errors are dropped when nobody reads.
func (c *Client) Errors() <-chan error { return c.errs }

// IsConnected reports whether a socket is currently open.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Run connects and keeps reconnecting until ctx ends or Close is called.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()

	attempt := 0
	for {
		if err := c.Connect(ctx); err != nil {
			if !errors.Is(err, ErrAlreadyClosed) && ctx.Err() == nil {
				c.report(err)
			}
		} else {
			attempt = 0
			if err := c.readLoop(); err != nil {
				c.report(err)
			}
		}
		if stop, err := c.stopped(ctx); stop {
			return err
		}

		delay := c.cfg.Backoff(attempt)
		attempt++
		c.log.Info("reconnecting", logger.NewField("delay", delay.String()), logger.NewField("attempt", attempt))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
		case <-c.done:
		case <-timer.C:
		}
		timer.Stop()
		if stop, err := c.stopped(ctx); stop {
			return err
		}
	}
}

func (c *Client) stopped(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return true, err
	}
	select {
	case <-c.done:
		return true, nil
	default:
		return false, nil
	}
}

// Connect dials once and asks the backend for an initial snapshot. Callers
// that use Connect directly must drive reads with Run instead of calling
// Connect again.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrAlreadyClosed
	}

	header := http.Header{}
	if c.cfg.SessionHeader != "" && c.sessionID != "" {
		header.Set(c.cfg.SessionHeader, c.sessionID)
	}
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return pkgerrors.Wrapf(err, "dial %s", c.cfg.URL)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrAlreadyClosed
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.log.Info("connected", logger.NewField("url", c.cfg.URL))

	if err := c.Send(ctx, operation.MarketStart{}); err != nil {
		c.drop(conn)
		return pkgerrors.Wrap(err, "market_start")
	}
	return nil
}

// Send writes one operation. It implements order.Sender.
func (c *Client) Send(ctx context.Context, op operation.Operation) error {
	data, err := operation.Encode(op)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()
	if !connected || conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.cfg.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	c.log.Debug("sent", logger.NewField("operation", string(op.OperationType())))
	return nil
}

// Close stops Run and closes the socket.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.connected = false
		conn := c.conn
		c.mu.Unlock()

		close(c.done)

		if conn != nil {
			c.writeMu.Lock()
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			c.writeMu.Unlock()
			err = conn.Close()
		}
	})
	return err
}

func (c *Client) readLoop() error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	defer c.drop(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
				return err
			}
		}
		if !c.push(data) {
			return nil
		}
	}
}

// push delivers a frame. Every snapshot carries the full state, so when the
// buffer is full the oldest frame is discarded instead of the new one.
func (c *Client) push(data []byte) bool {
	for {
		select {
		case c.frames <- data:
			return true
		case <-c.done:
			return false
		default:
		}
		select {
		case <-c.frames:
			c.log.Warn("frame buffer full, dropped oldest frame")
		default:
		}
	}
}

func (c *Client) drop(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.connected = false
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *Client) report(err error) {
	c.log.Warn("live channel error", logger.NewField("error", err.Error()))
	select {
	case c.errs <- err:
	default:
	}
}
