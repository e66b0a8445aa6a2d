package hal

import (
	"context"
	"fmt"
	"time"
)

// RunConfig controls the tick loop of every backend. Hz also sets the
// ebiten window's TPS.
type RunConfig struct {
	Hz    int
	Ticks uint64
}

// Run opens the configured backend and drives newApp's step function
// until ctx is done, the step fails, or the tick limit is reached. The
// backend is released before Run returns.
func Run(ctx context.Context, cfg HostConfig, newApp func(HAL) func() error, rc RunConfig) error {
	logger := newHostLogger()

	var h *hostHAL
	var err error
	switch cfg.Backend {
	case BackendEbiten, BackendHeadless:
		h, err = newHeapHAL(cfg, logger)
	case BackendX11, "":
		h, err = newX11HAL(cfg, logger)
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			logger.WriteLineString("close: " + cerr.Error())
		}
	}()
	if cfg.Backend == BackendEbiten {
		return runWindow(ctx, h, newApp, rc)
	}
	return runTicks(ctx, h, newApp(h), rc)
}

// tickRunner runs one app step per tick and decides when the loop ends.
type tickRunner struct {
	ctx   context.Context
	step  func() error
	limit uint64
	n     uint64
}

// tick runs a single step. done reports that the loop must stop: ctx was
// cancelled, the step failed, or the tick limit was reached. err is nil
// only for the tick limit.
func (r *tickRunner) tick() (done bool, err error) {
	if err := r.ctx.Err(); err != nil {
		return true, err
	}
	if r.step != nil {
		if err := r.step(); err != nil {
			return true, err
		}
	}
	r.n++
	return r.limit > 0 && r.n >= r.limit, nil
}

func runTicks(ctx context.Context, h *hostHAL, step func() error, rc RunConfig) error {
	if rc.Hz <= 0 {
		rc.Hz = 60
	}
	d := time.Second / time.Duration(rc.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid hz: %d", rc.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	r := &tickRunner{ctx: ctx, step: step, limit: rc.Ticks}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.pollInput()
			if done, err := r.tick(); done {
				return err
			}
		}
	}
}
