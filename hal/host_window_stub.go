//go:build !cgo

package hal

import (
	"context"
	"errors"
)

func runWindow(context.Context, *hostHAL, func(HAL) func() error, RunConfig) error {
	return errors.New("ebiten backend requires cgo (build/run with CGO_ENABLED=1)")
}
