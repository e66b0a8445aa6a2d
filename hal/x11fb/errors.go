package x11fb

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceUnavailable means the display server could not be reached.
	ErrDeviceUnavailable = errors.New("x11fb: display unavailable")
	// ErrNotInitialized means the device has no open display.
	ErrNotInitialized = errors.New("x11fb: not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("x11fb: already initialized")
	// ErrInvalidGeometry rejects sizes the protocol cannot express.
	ErrInvalidGeometry = errors.New("x11fb: invalid geometry")
	// ErrColorAllocationFailed matches every *ColorAllocationError.
	ErrColorAllocationFailed = errors.New("x11fb: color allocation failed")
	// ErrInvalidPalette means a channel slice is shorter than the entry count.
	ErrInvalidPalette = errors.New("x11fb: invalid palette")

	errSharedMemorySetup = errors.New("shared memory setup failed")
)

// ColorAllocationError reports the palette index the server refused.
type ColorAllocationError struct {
	Index int
	Err   error
}

func (e *ColorAllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("x11fb: allocate color %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("x11fb: allocate color %d", e.Index)
}

func (e *ColorAllocationError) Is(target error) bool { return target == ErrColorAllocationFailed }

func (e *ColorAllocationError) Unwrap() error { return e.Err }
