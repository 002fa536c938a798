package pack

import "fmt"

// Algorithm selects the per-iteration packing strategy: how circles are
// ordered, whether collisions move one or both circles, and whether the set
// contracts toward the reference point after resolution.
type Algorithm int

const (
	// AlgorithmSimple orders farthest-first and moves only the outer
	// circle of each colliding pair. No contraction, so the arrangement
	// only ever expands.
	AlgorithmSimple Algorithm = iota
	// AlgorithmFast is Simple plus a contraction step each iteration.
	AlgorithmFast
	// AlgorithmDouble orders farthest-first, splits each correction
	// evenly between both circles, and contracts.
	AlgorithmDouble
	// AlgorithmRandom shuffles the visit order each iteration, moves only
	// the first circle of each pair, and contracts.
	AlgorithmRandom
)

// Algorithm names as accepted by ParseAlgorithm and emitted by String.
const (
	nameSimple = "simple"
	nameFast   = "fast"
	nameDouble = "double"
	nameRandom = "random"
)

// ParseAlgorithm converts a name ("simple", "fast", "double", "random")
// into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case nameSimple:
		return AlgorithmSimple, nil
	case nameFast:
		return AlgorithmFast, nil
	case nameDouble:
		return AlgorithmDouble, nil
	case nameRandom:
		return AlgorithmRandom, nil
	default:
		return 0, fmt.Errorf("unknown algorithm: %q (must be one of: simple, fast, double, random)", s)
	}
}

// String returns the canonical name of the algorithm. Values outside the
// defined set render as "algorithm(n)" rather than masquerading as a real
// variant.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmSimple:
		return nameSimple
	case AlgorithmFast:
		return nameFast
	case AlgorithmDouble:
		return nameDouble
	case AlgorithmRandom:
		return nameRandom
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// orderer returns the ordering strategy the algorithm requires.
func (a Algorithm) orderer() Orderer {
	if a == AlgorithmRandom {
		return shuffle{}
	}
	return farthestFirst{}
}

// mutual reports whether collisions split the correction between both
// circles rather than moving only the first.
func (a Algorithm) mutual() bool {
	return a == AlgorithmDouble
}

// contracts reports whether the algorithm pulls circles toward the
// reference point after resolving collisions.
func (a Algorithm) contracts() bool {
	return a != AlgorithmSimple
}
