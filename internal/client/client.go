// Package client wires the live channel to a participant session and
// manages their lifecycle.
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/internal/operation"
	"github.com/zappabad/pctmarket/internal/order"
	"github.com/zappabad/pctmarket/internal/session"
	"github.com/zappabad/pctmarket/internal/transport"
)

// Client owns the transport and the session.
type Client struct {
	Transport *transport.Client
	Session   *session.Session

	log  logger.Interface
	wg   sync.WaitGroup
	done chan struct{}
	once sync.Once
}

// New creates a client. Nothing is dialled until Run.
func New(cfg Config, log logger.Interface) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Client{log: log, done: make(chan struct{})}

	// The session sends through the transport, which is created after the
	// session so it can carry the session id on its handshake.
	sender := order.SenderFunc(func(ctx context.Context, op operation.Operation) error {
		return c.Transport.Send(ctx, op)
	})
	adapter := chart.NewAdapter(cfg.Framing, cfg.MarketTime, nil)
	c.Session = session.New(cfg.Session, cfg.Participant, sender, adapter, log)

	id := c.Session.ID()
	c.Transport = transport.NewClient(cfg.Transport, id, log.WithFields(logger.NewField("session", id)))
	return c
}

// Run keeps the live channel up and feeds its frames to the session until
// ctx ends.
func (c *Client) Run(ctx context.Context) error {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.Session.Consume(ctx, c.Transport.Snapshots())
	}()
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case err, ok := <-c.Transport.Errors():
				if !ok {
					return
				}
				c.log.Error(err)
			}
		}
	}()

	err := c.Transport.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// Close shuts down the transport and the session.
func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
	_ = c.Transport.Close()
	c.Session.Close()
	c.wg.Wait()
}
