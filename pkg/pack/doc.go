// Package pack implements the circle-packing engine: a physics-like
// relaxation that iteratively nudges overlapping circles apart while
// optionally contracting the whole arrangement toward a center point.
//
// # Overview
//
// A [Packer] owns a fixed set of [Circle] values scattered near a reference
// point. Each call to [Packer.Pack] runs exactly one iteration:
//
//  1. Reset every circle's in-motion flag
//  2. Reorder circles per the algorithm's ordering strategy
//  3. Resolve every pair in nested-loop order
//  4. Optionally contract all circles toward the reference point
//  5. Invalidate the cached bounding box
//
// Pack reports whether any pair collided; deciding when to stop is the
// caller's job. [Runner] is the standard driver: it owns the iteration
// budget, decays the damping factor between passes, and checks for
// cancellation between (never inside) passes.
//
// # Algorithms
//
// Four variants trade convergence speed against directional bias:
//
//   - [AlgorithmSimple]: farthest-first order, single-circle resolve, no contraction
//   - [AlgorithmFast]: farthest-first order, single-circle resolve, contracts
//   - [AlgorithmDouble]: farthest-first order, mutual resolve, contracts
//   - [AlgorithmRandom]: shuffled order, single-circle resolve, contracts
//
// # Reproducibility
//
// All randomization (initial placement, shuffle ordering) flows through a
// single PCG generator seeded at construction, so a run is fully determined
// by its options.
//
// # Example
//
//	p, err := pack.New(geom.Pt(0, 0), pack.Options{
//	    Count:     24,
//	    MinRadius: 1,
//	    MaxRadius: 3,
//	    Seed:      42,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := pack.NewRunner(logger).Run(ctx, p, pack.RunOptions{
//	    Algorithm: pack.AlgorithmDouble,
//	})
package pack
