package pack

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/circlepack/pkg/geom"
)

func TestRunOptionsDefaults(t *testing.T) {
	opts := RunOptions{Algorithm: AlgorithmFast}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}

	if opts.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", opts.Iterations, DefaultIterations)
	}
	if opts.Damping != DefaultDamping {
		t.Errorf("Damping = %g, want %g", opts.Damping, DefaultDamping)
	}
	if opts.Decay != DefaultDecay {
		t.Errorf("Decay = %g, want %g", opts.Decay, DefaultDecay)
	}
}

func TestRunOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts RunOptions
	}{
		{"negative iterations", RunOptions{Iterations: -1}},
		{"negative damping", RunOptions{Damping: -0.1}},
		{"negative decay", RunOptions{Decay: -0.5}},
		{"decay above one", RunOptions{Decay: 1.5}},
		{"negative tolerance", RunOptions{Tolerance: -0.001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRunConverges(t *testing.T) {
	p, err := New(geom.Pt(0, 0), testOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := NewRunner(nil).Run(context.Background(), p, RunOptions{
		Algorithm:  AlgorithmFast,
		Iterations: 2000,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Converged {
		t.Fatalf("run did not converge within %d iterations", 2000)
	}
	if result.Iterations < 1 {
		t.Error("at least one iteration should have run")
	}
	if totalOverlap(p) > 0 {
		t.Error("converged run left residual overlap")
	}
}

func TestRunInvokesCallbackEveryIteration(t *testing.T) {
	p, err := New(geom.Pt(0, 0), testOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var calls int
	result, err := NewRunner(nil).Run(context.Background(), p, RunOptions{
		Algorithm:  AlgorithmDouble,
		Iterations: 2000,
		OnIteration: func(iteration int, collided bool, cb *Packer) {
			if cb != p {
				t.Error("callback received a different packer")
			}
			if iteration != calls {
				t.Errorf("iteration %d delivered out of order (want %d)", iteration, calls)
			}
			calls++
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != result.Iterations {
		t.Errorf("callback called %d times, want %d", calls, result.Iterations)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	p, err := New(geom.Pt(0, 0), testOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewRunner(nil).Run(ctx, p, RunOptions{Algorithm: AlgorithmFast})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result.Iterations != 0 {
		t.Errorf("cancelled-before-start run performed %d iterations", result.Iterations)
	}
}

func TestRunCancelsBetweenPasses(t *testing.T) {
	p, err := New(geom.Pt(0, 0), Options{Count: 12, MinRadius: 1, MaxRadius: 2, Seed: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	result, err := NewRunner(nil).Run(ctx, p, RunOptions{
		Algorithm:  AlgorithmDouble,
		Iterations: 100000,
		OnIteration: func(iteration int, collided bool, _ *Packer) {
			if iteration == 2 {
				cancel()
			}
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The pass in flight when cancel fired still completed; only the next
	// one was skipped.
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	p, err := New(geom.Pt(0, 0), testOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := NewRunner(nil).Run(context.Background(), p, RunOptions{Damping: -1}); err == nil {
		t.Error("invalid options should fail the run")
	}
}
