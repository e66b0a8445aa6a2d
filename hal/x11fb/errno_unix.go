//go:build unix

package x11fb

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Errno maps a device error to the negative errno a framebuffer driver
// returns. Nil maps to 0; errors outside the device taxonomy map to -1.
func Errno(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDeviceUnavailable), errors.Is(err, ErrNotInitialized):
		return -int(unix.ENODEV)
	case errors.Is(err, ErrInvalidPalette), errors.Is(err, ErrInvalidGeometry):
		return -int(unix.EINVAL)
	case errors.Is(err, ErrAlreadyInitialized):
		return -int(unix.EBUSY)
	}
	return -1
}
