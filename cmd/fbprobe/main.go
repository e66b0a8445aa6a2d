package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"simfb/hal"
	"simfb/hal/x11fb"
	"simfb/internal/buildinfo"
)

type stderrLogger struct{}

func (stderrLogger) WriteLineString(s string) { fmt.Fprintln(os.Stderr, s) }

func main() {
	var (
		width   = flag.Int("width", 320, "Window width in pixels.")
		height  = flag.Int("height", 240, "Window height in pixels.")
		display = flag.String("display", "", "X display to connect to (default $DISPLAY).")
		noShm   = flag.Bool("noshm", false, "Do not use MIT-SHM.")
		flash   = flag.String("flash", "", "Fill the window with this 0xRRGGBB color and show it.")
		hold    = flag.Duration("hold", 2*time.Second, "How long to show the -flash color.")
		version = flag.Bool("version", false, "Print the version and exit.")
	)
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg := x11fb.DefaultConfig().FromEnv()
	cfg.Title = "fbprobe"
	cfg.Command = append([]string{"fbprobe"}, os.Args[1:]...)
	if *display != "" {
		cfg.DisplayName = *display
	}
	if *noShm {
		cfg.NoShm = true
	}

	dev := x11fb.New(cfg, x11fb.WithLogger(stderrLogger{}))
	fb, err := dev.Initialize(*width, *height)
	if err != nil {
		fatalf(x11fb.Errno(err), "initialize: %v", err)
	}
	defer dev.Close()

	fmt.Printf("native depth:   %d\n", dev.NativeDepth())
	fmt.Printf("bits per pixel: %d\n", fb.BitsPerPixel)
	fmt.Printf("geometry:       %dx%d stride %d len %d\n", fb.Width, fb.Height, fb.Stride, fb.Len)
	fmt.Printf("mit-shm:        %v\n", dev.SharedMemory())

	if *flash == "" {
		return
	}
	rgb, err := strconv.ParseUint(*flash, 0, 32)
	if err != nil {
		dev.Close()
		fatalf(-1, "flash: %v", err)
	}
	fill(fb, uint32(rgb))
	if err := dev.OpenWindow(); err != nil {
		dev.Close()
		fatalf(x11fb.Errno(err), "open window: %v", err)
	}
	if err := dev.Flush(); err != nil {
		dev.Close()
		fatalf(x11fb.Errno(err), "flush: %v", err)
	}
	time.Sleep(*hold)
}

// fill paints every pixel. 8 bpp visuals get the RGB332 index of the
// color as a raw pixel value.
func fill(fb x11fb.Framebuffer, rgb uint32) {
	f := hal.FormatForDepth(fb.BitsPerPixel)
	n := hal.BytesPerPixel(f)
	px := hal.EncodeRGB(f, uint8(rgb>>16), uint8(rgb>>8), uint8(rgb))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			hal.PutPixel(fb.Buf, y*fb.Stride+x*n, f, px)
		}
	}
}

func fatalf(code int, format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	if code < 0 {
		code = -code
	}
	if code == 0 {
		code = 1
	}
	os.Exit(code)
}
