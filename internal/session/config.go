package session

import "github.com/zappabad/pctmarket/internal/render"

// Config holds configuration for the participant session.
type Config struct {
	// Render configures table building.
	Render render.Config
	// ActivitySize is the capacity of the activity ring buffer.
	ActivitySize int
	// FrameBuffer is the size of the internal frame channel.
	FrameBuffer int
	// UpdateBuffer is the size of the external update channel.
	UpdateBuffer int
	// DropUpdates determines whether the update channel drops on overflow.
	DropUpdates bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Render:       render.DefaultConfig(),
		ActivitySize: 50,
		FrameBuffer:  64,
		UpdateBuffer: 16,
		DropUpdates:  true,
	}
}
