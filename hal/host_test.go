package hal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"simfb/hal/x11fb"
)

func TestMemFramebuffer(t *testing.T) {
	fb := newMemFramebuffer(4, 3, PixelFormatRGB565)
	if fb.StrideBytes() != 8 || len(fb.Buffer()) != 24 || fb.BitsPerPixel() != 16 {
		t.Fatalf("stride=%d len=%d bpp=%d", fb.StrideBytes(), len(fb.Buffer()), fb.BitsPerPixel())
	}
	fb.ClearRGB(255, 0, 0)
	dst := make([]byte, 4*3*4)
	fb.snapshotRGBA(dst)
	for i := 0; i < len(dst); i += 4 {
		if dst[i] != 255 || dst[i+1] != 0 || dst[i+2] != 0 || dst[i+3] != 255 {
			t.Fatalf("pixel %d = % x", i/4, dst[i:i+4])
		}
	}
}

func TestMemFramebufferPalette(t *testing.T) {
	fb := newMemFramebuffer(2, 1, PixelFormatIndexed8)
	if err := fb.SetPalette(7, []byte{10}, []byte{20}, []byte{30}); err != nil {
		t.Fatalf("SetPalette: %v", err)
	}
	fb.Buffer()[1] = 7
	dst := make([]byte, 8)
	fb.snapshotRGBA(dst)
	if dst[4] != 10 || dst[5] != 20 || dst[6] != 30 {
		t.Fatalf("indexed pixel = % x", dst[4:8])
	}
	if err := fb.SetPalette(255, []byte{1, 2}, []byte{1, 2}, []byte{1, 2}); err == nil {
		t.Fatal("palette overflow accepted")
	}
}

func TestRunTicksHeadless(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultHostConfig()
	cfg.Backend = BackendHeadless
	h, err := newHeapHAL(cfg, &hostLogger{w: &out})
	if err != nil {
		t.Fatalf("newHeapHAL: %v", err)
	}
	steps := 0
	err = runTicks(context.Background(), h, func() error {
		steps++
		return h.Display().Framebuffer().Present()
	}, RunConfig{Hz: 1000, Ticks: 5})
	if err != nil {
		t.Fatalf("runTicks: %v", err)
	}
	if steps != 5 || h.mem.frames != 5 {
		t.Fatalf("steps=%d frames=%d", steps, h.mem.frames)
	}
}

func TestRunTicksStopsOnError(t *testing.T) {
	cfg := DefaultHostConfig()
	h, err := newHeapHAL(cfg, &hostLogger{w: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("newHeapHAL: %v", err)
	}
	boom := errors.New("boom")
	if err := runTicks(context.Background(), h, func() error { return boom }, RunConfig{Hz: 1000}); !errors.Is(err, boom) {
		t.Fatalf("expected step error, got %v", err)
	}
}

func TestTickRunner(t *testing.T) {
	steps := 0
	step := func() error { steps++; return nil }

	r := &tickRunner{ctx: context.Background(), step: step, limit: 3}
	for i := 1; i <= 3; i++ {
		done, err := r.tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if done != (i == 3) {
			t.Fatalf("tick %d: done=%v", i, done)
		}
	}
	if steps != 3 {
		t.Fatalf("steps=%d, want 3", steps)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r = &tickRunner{ctx: ctx, step: step}
	if done, err := r.tick(); done || err != nil {
		t.Fatalf("unlimited tick: done=%v err=%v", done, err)
	}
	cancel()
	steps = 0
	done, err := r.tick()
	if !done || !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled tick: done=%v err=%v", done, err)
	}
	if steps != 0 {
		t.Fatal("step ran after cancel")
	}
}

func TestRunUnknownBackend(t *testing.T) {
	cfg := DefaultHostConfig()
	cfg.Backend = "vga"
	err := Run(context.Background(), cfg, nil, RunConfig{})
	if err == nil || !strings.Contains(err.Error(), "vga") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestHostLogger(t *testing.T) {
	var out bytes.Buffer
	l := &hostLogger{w: &out}
	l.WriteLineString("a")
	l.WriteLineBytes([]byte("b"))
	if out.String() != "a\nb\n" {
		t.Fatalf("output %q", out.String())
	}
}

func TestX11InputTranslation(t *testing.T) {
	in := &x11Input{kbd: newHostKeyboard(), ptr: newHostPointer()}

	in.handle(x11fb.Event{Kind: x11fb.EventKeyPress, Keycode: 38})
	in.handle(x11fb.Event{Kind: x11fb.EventKeyPress, Keycode: 38, State: x11ShiftMask})
	in.handle(x11fb.Event{Kind: x11fb.EventKeyRelease, Keycode: 111})
	in.handle(x11fb.Event{Kind: x11fb.EventKeyPress, Keycode: 255})

	want := []KeyEvent{
		{Press: true, Rune: 'a'},
		{Press: true, Rune: 'A'},
		{Code: KeyUp, Press: false},
	}
	for i, w := range want {
		select {
		case got := <-in.kbd.ch:
			if got != w {
				t.Fatalf("key %d = %+v want %+v", i, got, w)
			}
		default:
			t.Fatalf("key %d missing", i)
		}
	}
	if len(in.kbd.ch) != 0 {
		t.Fatal("unmapped keycode produced an event")
	}

	in.handle(x11fb.Event{Kind: x11fb.EventButtonPress, Button: 1, X: 2, Y: 3})
	in.handle(x11fb.Event{Kind: x11fb.EventMotion, X: 4, Y: 5})
	in.handle(x11fb.Event{Kind: x11fb.EventButtonRelease, Button: 1, X: 4, Y: 5})
	wantPtr := []PointerEvent{
		{X: 2, Y: 3, Buttons: 1},
		{X: 4, Y: 5, Buttons: 1},
		{X: 4, Y: 5, Buttons: 0},
	}
	for i, w := range wantPtr {
		if got := <-in.ptr.ch; got != w {
			t.Fatalf("pointer %d = %+v want %+v", i, got, w)
		}
	}
}

func TestTranslateX11Key(t *testing.T) {
	tests := []struct {
		keycode uint8
		shift   bool
		code    KeyCode
		r       rune
	}{
		{10, false, KeyUnknown, '1'},
		{10, true, KeyUnknown, '!'},
		{52, false, KeyUnknown, 'z'},
		{61, true, KeyUnknown, '?'},
		{65, false, KeyUnknown, ' '},
		{36, false, KeyEnter, '\r'},
		{9, false, KeyEscape, 0},
		{116, false, KeyDown, 0},
		{200, false, KeyUnknown, 0},
	}
	for _, tc := range tests {
		code, r := translateX11Key(tc.keycode, tc.shift)
		if code != tc.code || r != tc.r {
			t.Fatalf("translateX11Key(%d, %v) = %d, %q; want %d, %q", tc.keycode, tc.shift, code, r, tc.code, tc.r)
		}
	}
}

func TestPixelLUT(t *testing.T) {
	l := identityLUT()
	allocated := map[int]uint32{1: 0x40, 2: 0x41}
	l.refresh(func(i int) (uint32, bool) {
		p, ok := allocated[i]
		return p, ok
	}, 0, 3)

	if l[0] != 0 {
		t.Fatalf("unallocated index 0 mapped to %#x", l[0])
	}
	if l[1] != 0x40 || l[2] != 0x41 {
		t.Fatalf("lut[1..2] = %#x %#x", l[1], l[2])
	}
	if l[3] != 3 {
		t.Fatalf("index outside refresh range changed: %#x", l[3])
	}

	dst := make([]byte, 4)
	l.translate(dst, []byte{2, 1, 0, 3})
	if !bytes.Equal(dst, []byte{0x41, 0x40, 0x00, 0x03}) {
		t.Fatalf("translate = % x", dst)
	}
}

func TestX11FramebufferIndexedTranslation(t *testing.T) {
	f := newX11Framebuffer(nil, x11fb.Framebuffer{
		Width: 4, Height: 1, BitsPerPixel: 8, Stride: 4, Buf: make([]byte, 4),
	})
	if &f.Buffer()[0] == &f.fb.Buf[0] {
		t.Fatal("indexed framebuffer exposes the server image directly")
	}
	f.lut[7] = 0xA7
	copy(f.Buffer(), []byte{7, 7, 0, 1})
	f.translateLocked()
	if !bytes.Equal(f.fb.Buf, []byte{0xA7, 0xA7, 0x00, 0x01}) {
		t.Fatalf("server image = % x", f.fb.Buf)
	}

	direct := newX11Framebuffer(nil, x11fb.Framebuffer{
		Width: 1, Height: 1, BitsPerPixel: 32, Stride: 4, Buf: make([]byte, 4),
	})
	if &direct.Buffer()[0] != &direct.fb.Buf[0] {
		t.Fatal("32bpp framebuffer should draw straight into the server image")
	}
}
