//go:build linux

package x11fb

import "golang.org/x/sys/unix"

type sysvSharedMemory struct{}

// SysVSharedMemory returns the System V shared-memory allocator the X
// server's MIT-SHM extension expects.
func SysVSharedMemory() SharedMemory { return sysvSharedMemory{} }

func (sysvSharedMemory) Get(size int) (int, error) {
	return unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|0o777)
}

func (sysvSharedMemory) Attach(id int) ([]byte, error) {
	return unix.SysvShmAttach(id, 0, 0)
}

func (sysvSharedMemory) Detach(addr []byte) error {
	return unix.SysvShmDetach(addr)
}

func (sysvSharedMemory) Remove(id int) error {
	_, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil)
	return err
}
