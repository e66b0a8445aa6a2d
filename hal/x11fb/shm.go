package x11fb

import "fmt"

// backing is the memory behind the image surface: exactly one of
// *sharedBacking or *heapBacking.
type backing interface {
	pixels() []byte
}

type sharedBacking struct {
	id     int
	addr   []byte
	server Segment
}

func (b *sharedBacking) pixels() []byte { return b.addr }

type heapBacking struct {
	buf []byte
}

func (b *heapBacking) pixels() []byte { return b.buf }

// acquireImageSurface sets up the image the flush engine copies from.
// Shared memory is tried first; any failure there is absorbed and the
// surface falls back to a heap buffer of length bytes.
func (d *Device) acquireImageSurface(depth, length int) error {
	if d.cfg.NoShm {
		return d.allocHeapSurface(depth, length)
	}
	if d.dpy.ShmQueryExtension() {
		err := d.negotiateSharedMemory(depth, length)
		if err == nil {
			return nil
		}
		d.logf("%v, using heap buffer", err)
	}
	return d.allocHeapSurface(depth, length)
}

// negotiateSharedMemory builds a MIT-SHM image. Each acquired resource is
// pushed on the surface stack; on failure the stack is unwound back to
// where it started.
func (d *Device) negotiateSharedMemory(depth, length int) (err error) {
	mark := d.surface.depth()
	defer func() {
		if err == nil {
			return
		}
		if uerr := d.surface.unwindTo(mark); uerr != nil {
			d.logf("unwind shared memory: %v", uerr)
		}
		err = fmt.Errorf("%w: %v", errSharedMemorySetup, err)
	}()

	var img *Image
	err = withErrorTrap(d.dpy, func() error {
		var err error
		img, err = d.dpy.ShmCreateImage(depth, d.width, d.height)
		return err
	})
	if err == nil && img == nil {
		err = fmt.Errorf("no image")
	}
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	d.surface.push("image", func() error {
		img.Data = nil
		return nil
	})

	if img.BytesPerLine*d.height != length {
		return fmt.Errorf("image is %d bytes per line, want %d", img.BytesPerLine, length/d.height)
	}

	size := img.BytesPerLine * img.Height
	id, err := d.shmem.Get(size)
	if err != nil {
		return fmt.Errorf("shmget: %w", err)
	}
	d.surface.push("segment", func() error { return d.shmem.Remove(id) })

	addr, err := d.shmem.Attach(id)
	if err != nil {
		return fmt.Errorf("shmat: %w", err)
	}
	d.surface.push("process attach", func() error { return d.shmem.Detach(addr) })
	if len(addr) < size {
		return fmt.Errorf("segment is %d bytes, want %d", len(addr), size)
	}
	img.Data = addr[:size]

	var seg Segment
	dpy := d.dpy
	err = withErrorTrap(dpy, func() error {
		var err error
		seg, err = dpy.ShmAttach(id, false)
		return err
	})
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	d.surface.push("server attach", func() error { return dpy.ShmDetach(seg) })

	d.img = img
	d.backing = &sharedBacking{id: id, addr: addr, server: seg}
	return nil
}

// allocHeapSurface wraps a heap buffer in a plain image without copying.
func (d *Device) allocHeapSurface(depth, length int) error {
	buf := make([]byte, length)
	img, err := d.dpy.CreateImage(depth, d.width, d.height, buf)
	if err == nil && img == nil {
		err = fmt.Errorf("no image")
	}
	if err != nil {
		return fmt.Errorf("%w: create image: %v", ErrDeviceUnavailable, err)
	}
	b := &heapBacking{buf: buf}
	d.surface.push("heap image", func() error {
		b.buf = nil
		img.Data = nil
		return nil
	})
	d.img = img
	d.backing = b
	return nil
}

// releaseImageSurface unwinds whatever part of the surface is held.
func (d *Device) releaseImageSurface() error {
	err := d.surface.unwind()
	d.img, d.backing = nil, nil
	return err
}
