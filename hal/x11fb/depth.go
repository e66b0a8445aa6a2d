package x11fb

// normalizeDepth returns the bits per pixel presented to the framebuffer
// consumer for a native server depth. 24-bit pixels are stored in 32-bit
// words; other depths round up to a whole byte.
func normalizeDepth(native int) int {
	if native == 24 {
		return 32
	}
	if r := native % 8; r != 0 {
		return native + 8 - r
	}
	return native
}

// layout returns the row stride and total length of a packed buffer.
func layout(bpp, width, height int) (stride, length int) {
	stride = bpp * width / 8
	return stride, stride * height
}
