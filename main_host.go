package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"simfb/app"
	"simfb/hal"
	"simfb/internal/buildinfo"

	"github.com/google/shlex"
)

func main() {
	cfg := hal.DefaultHostConfig()
	var rc hal.RunConfig
	var appCfg app.Config
	var backend string
	var version bool

	fs := flag.NewFlagSet("simfb", flag.ExitOnError)
	fs.StringVar(&backend, "backend", string(cfg.Backend), "Display backend: x11, ebiten or headless.")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Framebuffer width in pixels.")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Framebuffer height in pixels.")
	fs.IntVar(&cfg.BitsPerPixel, "bpp", cfg.BitsPerPixel, "Bits per pixel for the ebiten and headless backends (8, 16 or 32).")
	fs.StringVar(&cfg.X11.DisplayName, "display", cfg.X11.DisplayName, "X display to connect to (default $DISPLAY).")
	fs.BoolVar(&cfg.X11.NoShm, "noshm", cfg.X11.NoShm, "Do not use MIT-SHM.")
	fs.BoolVar(&cfg.X11.Keyboard, "keyboard", cfg.X11.Keyboard, "Receive key events.")
	fs.BoolVar(&cfg.X11.GrabPointer, "grab", cfg.X11.GrabPointer, "Grab button 1 for touchscreen emulation.")
	fs.IntVar(&rc.Hz, "hz", 60, "Tick rate.")
	fs.Uint64Var(&rc.Ticks, "ticks", 0, "Stop after N ticks (0 = run forever).")
	fs.BoolVar(&appCfg.Console, "console", false, "Run the text console instead of the test screen.")
	fs.BoolVar(&version, "version", false, "Print the version and exit.")

	args, err := withEnvFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fs.Parse(args)

	if version {
		fmt.Println(buildinfo.String())
		return
	}
	cfg.Backend = hal.Backend(backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = hal.Run(ctx, cfg, func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}, rc)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withEnvFlags prepends the shell-quoted words in SIMFB_FLAGS to args, so
// command-line flags override them.
func withEnvFlags(args []string) ([]string, error) {
	v := os.Getenv("SIMFB_FLAGS")
	if v == "" {
		return args, nil
	}
	extra, err := shlex.Split(v)
	if err != nil {
		return nil, fmt.Errorf("SIMFB_FLAGS: %w", err)
	}
	return append(extra, args...), nil
}
