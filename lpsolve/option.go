package lpsolve

import (
	"errors"
	"fmt"
	"time"
)

type Option func(*Model) error

// WithLogger routes lp_solve's messages to logger and raises the
// library's verbosity so there is something to route.
func WithLogger(logger Logger) Option {
	return func(m *Model) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		m.logger = logger
		m.verbose = true

		return nil
	}
}

// WithTimeout bounds each solve. lp_solve counts whole seconds, so the
// duration is rounded up. If an integer solution was found in time it is
// returned with SolutionSuboptimal, otherwise solving fails with ErrTimeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %s", d)
		}
		m.timeout = d

		return nil
	}
}

// WithMIPGap sets the branch-and-bound gap at which a solution is
// accepted as optimal, either absolute or relative to the objective.
func WithMIPGap(absolute bool, gap float64) Option {
	return func(m *Model) error {
		if gap < 0 {
			return fmt.Errorf("negative MIP gap %g", gap)
		}
		m.gap = &mipGap{absolute: absolute, value: gap}

		return nil
	}
}
