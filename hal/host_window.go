//go:build cgo

package hal

import (
	"context"
	"errors"

	"simfb/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// runWindow shows the heap framebuffer in a desktop window and forwards
// keyboard and mouse input. It blocks until the window closes, ctx is
// done, or rc.Ticks updates have run.
func runWindow(ctx context.Context, h *hostHAL, newApp func(HAL) func() error, rc RunConfig) error {
	if rc.Hz <= 0 {
		rc.Hz = 60
	}
	g := &hostGame{h: h, run: &tickRunner{ctx: ctx, step: newApp(h), limit: rc.Ticks}}
	ebiten.SetWindowTitle("simfb (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.mem.width*2, h.mem.height*2)
	ebiten.SetTPS(rc.Hz)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	pix     []byte
	buttons uint8
	run     *tickRunner
}

func (g *hostGame) Update() error {
	g.h.kbd.pollEbiten()
	g.pollPointer()
	done, err := g.run.tick()
	if err != nil {
		return err
	}
	if done {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) pollPointer() {
	x, y := ebiten.CursorPosition()
	var buttons uint8
	for i, b := range []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonMiddle, ebiten.MouseButtonRight} {
		if ebiten.IsMouseButtonPressed(b) {
			buttons |= 1 << i
		}
	}
	if buttons != 0 || buttons != g.buttons {
		g.h.ptr.emit(PointerEvent{X: x, Y: y, Buttons: buttons})
	}
	g.buttons = buttons
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.mem
	if g.fbImg == nil || len(g.pix) != fb.width*fb.height*4 {
		g.pix = make([]byte, fb.width*fb.height*4)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGBA(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.mem.width, g.h.mem.height
}
