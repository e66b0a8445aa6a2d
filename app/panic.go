package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"simfb/console"
	"simfb/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	panicFontHeight = 10
	panicFontOffset = 7
)

// guard wraps step so that a panic is logged, drawn on the framebuffer
// and returned as an error instead of taking the host down with it.
func guard(h hal.HAL, fb hal.Framebuffer, step func() error) func() error {
	return func() (err error) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			stack := string(debug.Stack())
			if l := h.Logger(); l != nil {
				l.WriteLineString(fmt.Sprintf("simfb panic: %v", v))
				for _, line := range strings.Split(stack, "\n") {
					if line != "" {
						l.WriteLineString(line)
					}
				}
			}
			drawPanic(fb, v, stack)
			err = fmt.Errorf("panic: %v", v)
		}()
		return step()
	}
}

func drawPanic(fb hal.Framebuffer, v any, stack string) {
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{"simfb panic:", fmt.Sprintf("%v", v), "stack:"}
	for _, line := range strings.Split(stack, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}

	d := console.NewDisplay(fb)
	fg := color.RGBA{A: 255}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	maxH := int16(fb.Height())
	for _, line := range lines {
		for len(line) > 0 {
			if y+panicFontHeight > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			x := int16(0)
			for _, r := range chunk {
				tinyfont.DrawChar(d, font, x, y+panicFontOffset, r, fg)
				x += fontWidth
			}
			y += panicFontHeight
			line = strings.TrimLeft(rest, " \t")
		}
	}
	_ = fb.Present()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
