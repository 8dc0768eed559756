package rollglue

import (
	"errors"
	"fmt"
	"time"
)

type settings struct {
	logger  Logger
	timeout time.Duration
	mipGap  float64
}

type Option func(*settings) error

func newSettings(opts []Option) (*settings, error) {
	s := &settings{logger: noopLogger{}}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return s, nil
}

func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.logger = logger

		return nil
	}
}

// WithTimeout bounds the solver run. A run that hits the bound after finding
// a solution still succeeds, with StatusSuboptimal.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %s", d)
		}
		s.timeout = d

		return nil
	}
}

// WithMIPGap accepts solutions within gap of the best bound, relative to
// the objective, as optimal.
func WithMIPGap(gap float64) Option {
	return func(s *settings) error {
		if gap < 0 {
			return fmt.Errorf("negative MIP gap %g", gap)
		}
		s.mipGap = gap

		return nil
	}
}
