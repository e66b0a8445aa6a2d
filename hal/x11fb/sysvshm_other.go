//go:build !linux

package x11fb

import "errors"

type unsupportedSharedMemory struct{}

// SysVSharedMemory returns an allocator that always fails, so the device
// falls back to a heap buffer.
func SysVSharedMemory() SharedMemory { return unsupportedSharedMemory{} }

func (unsupportedSharedMemory) Get(int) (int, error)      { return 0, errors.ErrUnsupported }
func (unsupportedSharedMemory) Attach(int) ([]byte, error) { return nil, errors.ErrUnsupported }
func (unsupportedSharedMemory) Detach([]byte) error        { return errors.ErrUnsupported }
func (unsupportedSharedMemory) Remove(int) error           { return errors.ErrUnsupported }
