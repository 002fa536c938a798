package pack

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/circlepack/pkg/geom"
)

// Orderer determines the sequence in which circles are visited during a
// pack pass. The order matters: pairs are resolved in nested-loop order, so
// circles earlier in the slice absorb the displacement.
type Orderer interface {
	Order(circles []*Circle, ref geom.Point, rng *rand.Rand)
}

// farthestFirst sorts circles by descending distance from the reference
// point. Processing outer circles first biases resolution toward pushing
// them further out and inner circles toward the center, which combined with
// contraction compacts the arrangement over iterations. Ties are broken
// arbitrarily.
type farthestFirst struct{}

func (farthestFirst) Order(circles []*Circle, ref geom.Point, _ *rand.Rand) {
	slices.SortFunc(circles, func(a, b *Circle) int {
		da := a.Center.DistanceSquared(ref)
		db := b.Center.DistanceSquared(ref)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		default:
			return 0
		}
	})
}

// shuffle applies an independent uniform permutation. It trades the
// farthest-first compaction bias for freedom from systematic directional
// artifacts.
type shuffle struct{}

func (shuffle) Order(circles []*Circle, _ geom.Point, rng *rand.Rand) {
	rng.Shuffle(len(circles), func(i, j int) {
		circles[i], circles[j] = circles[j], circles[i]
	})
}
