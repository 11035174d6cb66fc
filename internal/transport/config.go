package transport

import "time"

// Config holds configuration for the live channel client.
type Config struct {
	// URL of the backend websocket.
	URL string
	// SessionHeader carries the client session id on the handshake.
	SessionHeader string
	// HandshakeTimeout bounds a single dial.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds a single outbound frame.
	WriteTimeout time.Duration
	// MinBackoff and MaxBackoff bound the reconnect delay.
	MinBackoff time.Duration
	MaxBackoff time.Duration
	// BufferSize is the capacity of the inbound frame channel.
	BufferSize int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		SessionHeader:    "X-Session-ID",
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		MinBackoff:       500 * time.Millisecond,
		MaxBackoff:       15 * time.Second,
		BufferSize:       64,
	}
}

// Backoff returns the delay before reconnect attempt n (0-based): MinBackoff
// doubled n times, capped at MaxBackoff.
func (c Config) Backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 30 {
		return c.MaxBackoff
	}
	d := c.MinBackoff * time.Duration(1<<n)
	if d > c.MaxBackoff || d <= 0 {
		return c.MaxBackoff
	}
	return d
}
