// Package app is the program that runs on the simulated framebuffer: a
// test screen with colour bars, a palette ramp and a status line, or a
// local-echo text console.
package app

import (
	"fmt"

	"simfb/console"
	"simfb/hal"
)

type Config struct {
	// Console runs the text console instead of the test screen.
	Console bool
	// StatusEvery is the number of steps between status line redraws.
	StatusEvery int
}

type system struct {
	h   hal.HAL
	cfg Config
	fb  hal.Framebuffer
	con *console.Console
	ts  *testScreen

	steps uint64
	ptr   hal.PointerEvent
}

// New returns the step function for a simulator with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// NewWithConfig prepares the framebuffer and returns the step function
// the host calls once per tick.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	if cfg.StatusEvery <= 0 {
		cfg.StatusEvery = 30
	}
	s := &system{h: h, cfg: cfg}
	if d := h.Display(); d != nil {
		s.fb = d.Framebuffer()
	}
	if s.fb == nil {
		h.Logger().WriteLineString("app: no framebuffer")
		return func() error { return nil }
	}

	if s.fb.Format() == hal.PixelFormatIndexed8 {
		r, g, b := hal.RGB332Palette()
		if err := s.fb.SetPalette(0, r, g, b); err != nil {
			h.Logger().WriteLineString(fmt.Sprintf("app: palette: %v", err))
		}
	}

	if cfg.Console {
		s.con = console.New(s.fb)
		s.con.WriteString("simfb console\r\n")
	} else {
		s.ts = newTestScreen(s.fb)
		s.ts.draw()
	}
	return guard(h, s.fb, s.step)
}

func (s *system) step() error {
	s.steps++
	s.drainInput()

	if s.con != nil {
		if !s.con.Dirty() {
			return nil
		}
		s.con.MarkClean()
		return s.fb.Present()
	}

	if s.steps%uint64(s.cfg.StatusEvery) == 1 {
		s.ts.status(fmt.Sprintf("%dx%d %s #%d @%d,%d",
			s.fb.Width(), s.fb.Height(), s.fb.Format(), s.steps, s.ptr.X, s.ptr.Y))
	}
	return s.fb.Present()
}

func (s *system) drainInput() {
	in := s.h.Input()
	if in == nil {
		return
	}
	if kbd := in.Keyboard(); kbd != nil {
		for done := false; !done; {
			select {
			case ev := <-kbd.Events():
				if s.con != nil {
					s.con.HandleKey(ev)
				}
			default:
				done = true
			}
		}
	}
	if ptr := in.Pointer(); ptr != nil {
		for done := false; !done; {
			select {
			case ev := <-ptr.Events():
				s.ptr = ev
				if s.ts != nil && ev.Buttons&1 != 0 {
					s.ts.mark(ev.X, ev.Y)
				}
			default:
				done = true
			}
		}
	}
}
