package app

import (
	"image/color"

	"simfb/console"
	"simfb/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const statusHeight = 12

var bars = []color.RGBA{
	{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF},
	{R: 0xC0, G: 0xC0, A: 0xFF},
	{G: 0xC0, B: 0xC0, A: 0xFF},
	{G: 0xC0, A: 0xFF},
	{R: 0xC0, B: 0xC0, A: 0xFF},
	{R: 0xC0, A: 0xFF},
	{B: 0xC0, A: 0xFF},
	{A: 0xFF},
}

// testScreen draws the bars, ramps and status line used to check depth
// conversion and palette setup by eye.
type testScreen struct {
	fb hal.Framebuffer
	d  *console.Display
}

func newTestScreen(fb hal.Framebuffer) *testScreen {
	return &testScreen{fb: fb, d: console.NewDisplay(fb)}
}

func (s *testScreen) draw() {
	w, h := s.fb.Width(), s.fb.Height()
	body := h - statusHeight
	if body < 0 {
		body = 0
	}
	barH := body * 2 / 3
	rampH := body - barH

	for i, c := range bars {
		x0 := w * i / len(bars)
		x1 := w * (i + 1) / len(bars)
		s.d.FillRectangle(int16(x0), 0, int16(x1-x0), int16(barH), c)
	}

	// Grey, red, green and blue ramps, one row band each.
	for band := 0; band < 4; band++ {
		y0 := barH + rampH*band/4
		y1 := barH + rampH*(band+1)/4
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			c := color.RGBA{A: 0xFF}
			switch band {
			case 0:
				c.R, c.G, c.B = v, v, v
			case 1:
				c.R = v
			case 2:
				c.G = v
			case 3:
				c.B = v
			}
			s.d.FillRectangle(int16(x), int16(y0), 1, int16(y1-y0), c)
		}
	}
	s.status("")
}

func (s *testScreen) status(text string) {
	y := s.fb.Height() - statusHeight
	s.d.FillRectangle(0, int16(y), int16(s.fb.Width()), statusHeight, color.RGBA{A: 0xFF})
	tinyfont.WriteLine(s.d, &proggy.TinySZ8pt7b, 2, int16(y+statusHeight-3), text,
		color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
}

// mark draws a small cross where the pointer was pressed.
func (s *testScreen) mark(x, y int) {
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	s.d.FillRectangle(int16(x-2), int16(y), 5, 1, white)
	s.d.FillRectangle(int16(x), int16(y-2), 1, 5, white)
}
