// Package console runs a VT100-style text terminal on a hal.Framebuffer.
package console

import (
	"simfb/hal"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const fontHeight = 10

// Console is a text terminal drawing into a framebuffer. Writes only
// touch the pixel buffer; the caller presents the frame.
type Console struct {
	fb hal.Framebuffer
	d  *Display
	t  *tinyterm.Terminal

	dirty bool
}

func New(fb hal.Framebuffer) *Console {
	c := &Console{fb: fb, d: NewDisplay(fb)}
	c.Reset()
	return c
}

// Reset clears the screen and puts the cursor in the top left corner.
func (c *Console) Reset() {
	c.t = newTerminal(c.d)
	c.fb.ClearRGB(0, 0, 0)
	c.dirty = true
}

// newTerminal scrolls in software: once the cursor reaches the last row,
// tinyterm shifts the pixels up through the display's ScrollUp.
func newTerminal(d tinyterm.Displayer) *tinyterm.Terminal {
	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        fontHeight,
		FontOffset:        7,
		UseSoftwareScroll: true,
	})
	return t
}

func (c *Console) Write(p []byte) (int, error) {
	n, err := c.t.Write(p)
	if n > 0 {
		c.dirty = true
	}
	return n, err
}

func (c *Console) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// Dirty reports whether anything was drawn since the last MarkClean.
func (c *Console) Dirty() bool { return c.dirty }

func (c *Console) MarkClean() { c.dirty = false }

// HandleKey echoes typed characters, the way a local-echo terminal does.
func (c *Console) HandleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	switch {
	case ev.Rune == 0x0C:
		c.Reset()
	case ev.Rune == '\r' || ev.Code == hal.KeyEnter:
		c.WriteString("\r\n")
	case ev.Rune == '\b' || ev.Code == hal.KeyBackspace:
		c.WriteString("\b \b")
	case ev.Rune >= 0x20 && ev.Rune < 0x7F:
		c.Write([]byte{byte(ev.Rune)})
	}
}
