package x11fb

import (
	"errors"
	"fmt"
)

type releaseStep struct {
	name    string
	release func() error
}

// cleanupStack records acquired resources so they can be released in
// reverse order. Its depth is the checkpoint: steps above it were never
// pushed and are never run, and a step is popped before it runs so it
// runs at most once.
type cleanupStack struct {
	steps []releaseStep
}

func (s *cleanupStack) push(name string, release func() error) {
	s.steps = append(s.steps, releaseStep{name: name, release: release})
}

func (s *cleanupStack) depth() int { return len(s.steps) }

// unwindTo releases steps until n remain. Every step is attempted even if
// an earlier one fails.
func (s *cleanupStack) unwindTo(n int) error {
	if n < 0 {
		n = 0
	}
	var errs []error
	for len(s.steps) > n {
		last := s.steps[len(s.steps)-1]
		s.steps = s.steps[:len(s.steps)-1]
		if err := last.release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", last.name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *cleanupStack) unwind() error { return s.unwindTo(0) }
