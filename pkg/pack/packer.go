package pack

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/circlepack/pkg/geom"
)

// minDamping is the contraction threshold. Damping factors below this move
// circles by negligible amounts, so the contraction step is skipped
// entirely rather than burning a full pass on sub-visible motion.
const minDamping = 0.01

// Options configures packer construction.
type Options struct {
	// Count is the number of circles to pack. Must be at least 2.
	Count int
	// MinRadius and MaxRadius bound the randomized circle radii, sampled
	// uniformly from the half-open interval [MinRadius, MaxRadius), so
	// MaxRadius itself is never drawn. MinRadius must be positive and
	// MaxRadius must not be smaller.
	MinRadius float64
	MaxRadius float64
	// Seed initializes the packer's random generator. The same seed with
	// the same options reproduces the identical run.
	Seed uint64
}

// Validate checks the construction preconditions.
func (o Options) Validate() error {
	if o.Count < 2 {
		return fmt.Errorf("count must be at least 2, got %d", o.Count)
	}
	if o.MinRadius <= 0 {
		return fmt.Errorf("min radius must be positive, got %g", o.MinRadius)
	}
	if o.MaxRadius < o.MinRadius {
		return fmt.Errorf("max radius %g is smaller than min radius %g", o.MaxRadius, o.MinRadius)
	}
	return nil
}

// Packer owns an ordered collection of circles and relaxes them around a
// fixed reference point, one Pack call per iteration. It is not safe for
// concurrent use; the algorithm is iteration-sequential by design.
type Packer struct {
	circles []*Circle
	ref     geom.Point
	refZ    float64
	rng     *rand.Rand

	bounds      geom.Rect
	boundsValid bool
}

// New creates a packer with opts.Count circles scattered near ref. Each
// circle gets an independent uniform offset in [0, MinRadius) per axis and
// an independent uniform radius in [MinRadius, MaxRadius). All
// randomization flows through a single PCG generator seeded from opts.Seed
// so runs are reproducible.
func New(ref geom.Point, opts Options) (*Packer, error) {
	return NewZ(ref, 0, opts)
}

// NewZ is New with an explicit third-axis value stamped onto every circle.
// The value never participates in packing math; it is carried through so
// committed scenes land on the right plane.
func NewZ(ref geom.Point, z float64, opts Options) (*Packer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))

	circles := make([]*Circle, opts.Count)
	for i := range circles {
		offset := geom.Pt(rng.Float64()*opts.MinRadius, rng.Float64()*opts.MinRadius)
		radius := opts.MinRadius + rng.Float64()*(opts.MaxRadius-opts.MinRadius)
		c := NewCircle(ref.Add(offset), radius)
		c.Z = z
		circles[i] = c
	}

	return &Packer{circles: circles, ref: ref, refZ: z, rng: rng}, nil
}

// Circles returns the packer's circles in their current order. The backing
// memory is owned by the packer; callers committing results should copy
// what they need.
func (p *Packer) Circles() []*Circle {
	return p.circles
}

// Reference returns the fixed point the arrangement contracts toward.
func (p *Packer) Reference() geom.Point {
	return p.ref
}

// Pack runs exactly one relaxation iteration with the given algorithm and
// reports whether any pair collided during the pass. Termination is the
// caller's concern: a false return is the usual convergence signal, but the
// packer itself never decides to stop.
//
// Damping controls the contraction step for algorithms that contract: each
// circle moves that fraction of the way toward the reference point. Values
// below 0.01 disable contraction for the pass. Tolerance widens the
// collision test by the caller's geometric precision (scene/document
// units).
func (p *Packer) Pack(algorithm Algorithm, damping, tolerance float64) bool {
	for _, c := range p.circles {
		c.moved = false
	}

	algorithm.orderer().Order(p.circles, p.ref, p.rng)

	mutual := algorithm.mutual()
	collided := false
	for i := 0; i < len(p.circles); i++ {
		for j := i + 1; j < len(p.circles); j++ {
			if mutual {
				collided = p.circles[i].ResolveMutual(p.circles[j], tolerance) || collided
			} else {
				collided = p.circles[i].ResolveSingle(p.circles[j], tolerance) || collided
			}
		}
	}

	if algorithm.contracts() && damping >= minDamping {
		p.contract(damping)
	}

	p.boundsValid = false
	return collided
}

// contract pulls every circle toward the reference point by damping times
// its distance.
func (p *Packer) contract(damping float64) {
	for _, c := range p.circles {
		c.Translate(p.ref.Sub(c.Center).Mul(damping))
	}
}

// Bounds returns the union of all circle bounding boxes. The result is
// memoized and recomputed lazily after any Pack call invalidates it.
func (p *Packer) Bounds() geom.Rect {
	if !p.boundsValid {
		bounds := p.circles[0].Bounds()
		for _, c := range p.circles[1:] {
			bounds = bounds.Union(c.Bounds())
		}
		p.bounds = bounds
		p.boundsValid = true
	}
	return p.bounds
}
