package solver

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMaxDepth caps exploration. It only guarantees termination on
	// pathological inputs; well-formed levels never reach it.
	DefaultMaxDepth = 100

	// DefaultTarget is the number of unique collectibles a goal requires.
	DefaultTarget = 3

	// MaxTarget bounds the target so collected sets fit in a fixed array.
	MaxTarget = 8
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("solver: invalid option supplied")

// Option configures a Solver via functional arguments. An invalid Option
// is recorded and surfaced by New.
type Option func(*Options)

// Options holds the tunables of a Solver.
type Options struct {
	// MaxDepth: states at or beyond this depth are goal-tested but never
	// expanded.
	MaxDepth int

	// Target is the exact number of unique collectibles required at the
	// end cell.
	Target int

	// Logger receives search diagnostics. Nil means log.Default().
	Logger *log.Logger

	err error
}

// DefaultOptions returns Options with MaxDepth 100, Target 3 and the
// default logger.
func DefaultOptions() Options {
	return Options{
		MaxDepth: DefaultMaxDepth,
		Target:   DefaultTarget,
	}
}

// WithMaxDepth sets the depth bound. Negative values are a violation.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: max depth %d is negative", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithTarget sets the required collectible count (0..MaxTarget).
func WithTarget(n int) Option {
	return func(o *Options) {
		if n < 0 || n > MaxTarget {
			o.err = fmt.Errorf("%w: target %d outside 0..%d", ErrOptionViolation, n, MaxTarget)
			return
		}
		o.Target = n
	}
}

// WithLogger routes diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
