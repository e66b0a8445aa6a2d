package x11fb

// SetPalette allocates count colors, starting at palette index first, in
// the default colormap. Channels are 8-bit and are scaled to the server's
// 16-bit range. transp is accepted for interface parity and ignored.
//
// The first entry the server refuses ends the call with a
// *ColorAllocationError; entries allocated before it stay allocated.
func (d *Device) SetPalette(first, count int, red, green, blue, transp []byte) error {
	if d.state != StateReady {
		return ErrNotInitialized
	}
	if first < 0 || count < 0 || len(red) < count || len(green) < count || len(blue) < count {
		return ErrInvalidPalette
	}

	cmap := d.screen.DefaultColormap
	for i := 0; i < count; i++ {
		c := Color{
			Red:   uint16(red[i]) << 8,
			Green: uint16(green[i]) << 8,
			Blue:  uint16(blue[i]) << 8,
			Flags: DoRed | DoGreen | DoBlue,
		}
		if err := d.dpy.AllocColor(cmap, &c); err != nil {
			d.logf("failed to allocate color %d: %v", first+i, err)
			return &ColorAllocationError{Index: first + i, Err: err}
		}
		d.palette[first+i] = c.Pixel
	}
	return nil
}

// PalettePixel returns the server pixel allocated for a palette index.
func (d *Device) PalettePixel(index int) (uint32, bool) {
	p, ok := d.palette[index]
	return p, ok
}
