//go:build !unix

package x11fb

import "errors"

// Linux values, so logs read the same on every host.
const (
	errnoENODEV = 19
	errnoEINVAL = 22
	errnoEBUSY  = 16
)

func Errno(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDeviceUnavailable), errors.Is(err, ErrNotInitialized):
		return -errnoENODEV
	case errors.Is(err, ErrInvalidPalette), errors.Is(err, ErrInvalidGeometry):
		return -errnoEINVAL
	case errors.Is(err, ErrAlreadyInitialized):
		return -errnoEBUSY
	}
	return -1
}
