package gonewton

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ============================================================
// Errors
// ============================================================

// DefaultMaxSteps is the iteration cap used when Options.MaxSteps is zero.
const DefaultMaxSteps = 1000

var (
	// ErrInvalidArgument reports a rejected input, detected before iterating.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStepLimitExceeded reports that the iteration cap was reached.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
	// ErrDerivativeZero reports an iterate where f'(x) == 0 exactly.
	ErrDerivativeZero = errors.New("derivative is zero")
)

// RootError describes a failed iteration. It unwraps to one of the
// sentinel errors above.
type RootError struct {
	Step int     // updates performed before the failure
	X    float64 // iterate at which the failure was detected
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("newton: %v at step %d (x=%g)", e.Err, e.Step, e.X)
}

func (e *RootError) Unwrap() error { return e.Err }

// ============================================================
// Tracing
// ============================================================

// Step is one observation of the iteration: the iterate and f, f' there.
type Step struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Value      float64 `json:"value"`
	Derivative float64 `json:"derivative"`
}

// Tracer observes iteration steps. It cannot influence the iteration.
type Tracer func(Step)

// SlogTracer logs every step at debug level.
func SlogTracer(logger *slog.Logger) Tracer {
	return func(s Step) {
		logger.LogAttrs(context.Background(), slog.LevelDebug, "newton step",
			slog.Int("step", s.Index),
			slog.Float64("x", s.X),
			slog.Float64("f", s.Value),
			slog.Float64("df", s.Derivative),
		)
	}
}

// CollectTrace appends every step to dst.
func CollectTrace(dst *[]Step) Tracer {
	return func(s Step) { *dst = append(*dst, s) }
}

// MultiTracer fans each step out to every non-nil tracer, in order.
func MultiTracer(tracers ...Tracer) Tracer {
	var live []Tracer
	for _, t := range tracers {
		if t != nil {
			live = append(live, t)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(s Step) {
		for _, t := range live {
			t(s)
		}
	}
}

// ============================================================
// Newton-Raphson
// ============================================================

// Options configures Solve.
type Options struct {
	Epsilon  float64 // convergence tolerance on |f(x)|, must be > 0
	X0       float64 // starting point
	MaxSteps int     // 0 means DefaultMaxSteps
	Trace    Tracer  // nil means silent
}

// Result is a converged iteration.
type Result struct {
	Root       float64
	Value      float64 // f(Root), |Value| <= Epsilon
	Derivative float64 // f'(Root)
	Steps      int     // updates performed
}

// FindRoot runs Newton-Raphson from x0 until |f(x)| <= epsilon, using
// DefaultMaxSteps and no tracing.
func FindRoot(epsilon, x0 float64, e Expr) (float64, error) {
	res, err := Solve(e, Options{Epsilon: epsilon, X0: x0})
	if err != nil {
		return 0, err
	}
	return res.Root, nil
}

// Solve iterates x <- x - f(x)/f'(x) starting at opts.X0. It fails with
// ErrInvalidArgument before iterating when the options are unusable, with
// ErrDerivativeZero when an iterate has a zero slope, and with
// ErrStepLimitExceeded once more than MaxSteps updates were made. NaN
// iterates never converge, so they end at the step limit.
func Solve(e Expr, opts Options) (Result, error) {
	if e == nil {
		return Result{}, fmt.Errorf("newton: nil expression: %w", ErrInvalidArgument)
	}
	if !(opts.Epsilon > 0) {
		return Result{}, fmt.Errorf("newton: epsilon must be > 0, got %g: %w", opts.Epsilon, ErrInvalidArgument)
	}
	maxSteps := opts.MaxSteps
	switch {
	case maxSteps < 0:
		return Result{}, fmt.Errorf("newton: max steps must be >= 0, got %d: %w", maxSteps, ErrInvalidArgument)
	case maxSteps == 0:
		maxSteps = DefaultMaxSteps
	}

	x := opts.X0
	steps := 0
	for {
		d := Evaluate(e, x)
		if opts.Trace != nil {
			opts.Trace(Step{Index: steps, X: x, Value: d.Value, Derivative: d.Derivative})
		}
		if math.Abs(d.Value) <= opts.Epsilon {
			return Result{Root: x, Value: d.Value, Derivative: d.Derivative, Steps: steps}, nil
		}
		if d.Derivative == 0 {
			return Result{}, &RootError{Step: steps, X: x, Err: ErrDerivativeZero}
		}
		x -= d.Value / d.Derivative
		steps++
		if steps > maxSteps {
			return Result{}, &RootError{Step: steps, X: x, Err: ErrStepLimitExceeded}
		}
	}
}
