package x11fb

import (
	"os"
	"strconv"
)

// Config controls how the device presents itself on the display server.
type Config struct {
	// DisplayName selects the X server; empty uses $DISPLAY.
	DisplayName string

	Title    string
	IconName string
	Command  []string

	// Keyboard selects key events on the window.
	Keyboard bool
	// GrabPointer grabs button 1 asynchronously, as needed by touchscreen,
	// joystick and button emulation.
	GrabPointer bool
	// NoShm skips MIT-SHM negotiation and always uses a heap buffer.
	NoShm bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Title:    "simfb",
		IconName: "fb",
		Command:  []string{"simfb"},
		Keyboard: true,
	}
}

// FromEnv overlays SIMFB_DISPLAY, SIMFB_TITLE and SIMFB_NOSHM on c.
func (c Config) FromEnv() Config {
	if v := os.Getenv("SIMFB_DISPLAY"); v != "" {
		c.DisplayName = v
	}
	if v := os.Getenv("SIMFB_TITLE"); v != "" {
		c.Title = v
	}
	if v := os.Getenv("SIMFB_NOSHM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.NoShm = b
		}
	}
	return c
}
