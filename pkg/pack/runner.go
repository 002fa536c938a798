package pack

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circlepack/pkg/observability"
)

// Default values for the driver loop. These are shared by the CLI, the TUI,
// and the HTTP API so all entry points behave identically.
const (
	// DefaultIterations is the iteration budget for a packing run.
	DefaultIterations = 200

	// DefaultDamping is the initial contraction factor.
	DefaultDamping = 0.1

	// DefaultDecay is the per-iteration multiplier applied to damping
	// between Pack calls. The engine itself never decays damping; that
	// schedule belongs to the driver.
	DefaultDecay = 0.98

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// IterationFunc observes a completed pack pass. The driver invokes it after
// every iteration with the current packer state, which is how live
// rendering hooks in without a global event bus. The packer must not be
// mutated from the callback.
type IterationFunc func(iteration int, collided bool, p *Packer)

// RunOptions configures a packing run.
type RunOptions struct {
	Algorithm  Algorithm `json:"algorithm"`
	Iterations int       `json:"iterations,omitempty"`
	Damping    float64   `json:"damping,omitempty"`
	Decay      float64   `json:"decay,omitempty"`
	Tolerance  float64   `json:"tolerance,omitempty"`

	// OnIteration, when set, is called after every pack pass.
	OnIteration IterationFunc `json:"-"`
}

// ValidateAndSetDefaults checks option ranges and applies defaults.
// This method is idempotent.
func (o *RunOptions) ValidateAndSetDefaults() error {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Iterations < 0 {
		return fmt.Errorf("iterations must be positive, got %d", o.Iterations)
	}
	if o.Damping == 0 {
		o.Damping = DefaultDamping
	}
	if o.Damping < 0 {
		return fmt.Errorf("damping must not be negative, got %g", o.Damping)
	}
	if o.Decay == 0 {
		o.Decay = DefaultDecay
	}
	if o.Decay < 0 || o.Decay > 1 {
		return fmt.Errorf("decay must be in (0, 1], got %g", o.Decay)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", o.Tolerance)
	}
	return nil
}

// Result reports how a packing run ended.
type Result struct {
	// Iterations is the number of Pack calls performed.
	Iterations int
	// Converged is true when the final pass resolved no collisions
	// within the iteration budget.
	Converged bool
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Runner drives a Packer to convergence: it owns the iteration budget, the
// decaying damping schedule, and cancellation. The engine exposes only a
// single-iteration Pack; everything loop-shaped lives here.
//
// The Runner is stateless apart from its logger, so one instance can serve
// sequential runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, logging is discarded.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger}
}

// Run calls Pack repeatedly until the iteration budget is exhausted, a pass
// reports no collisions, or ctx is cancelled. Cancellation is checked only
// between passes: a single pass is atomic and cannot be interrupted, which
// is an accepted latency bound given the O(n²) per-pass cost.
func (r *Runner) Run(ctx context.Context, p *Packer, opts RunOptions) (Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Pack().OnRunStart(ctx, opts.Algorithm.String(), len(p.Circles()))

	damping := opts.Damping
	var result Result
	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			observability.Pack().OnRunComplete(ctx, opts.Algorithm.String(), result.Iterations, false, result.Elapsed, err)
			return result, err
		}

		collided := p.Pack(opts.Algorithm, damping, opts.Tolerance)
		result.Iterations++
		damping *= opts.Decay

		observability.Pack().OnIteration(ctx, i, collided)
		if opts.OnIteration != nil {
			opts.OnIteration(i, collided, p)
		}

		if !collided {
			result.Converged = true
			break
		}
	}

	result.Elapsed = time.Since(start)
	observability.Pack().OnRunComplete(ctx, opts.Algorithm.String(), result.Iterations, result.Converged, result.Elapsed, nil)

	r.Logger.Info("packing finished",
		"algorithm", opts.Algorithm.String(),
		"iterations", result.Iterations,
		"converged", result.Converged,
		"duration", result.Elapsed.Round(time.Millisecond))

	return result, nil
}
