package pack

import (
	"math"

	"github.com/matzehuels/circlepack/pkg/geom"
)

// overlapSlack scales the tolerance handed to the collision test. Two
// circles whose gap is within 0.01*tolerance of touching are treated as
// already resolved, which keeps the relaxation from chasing sub-precision
// overlaps forever.
const overlapSlack = 0.01

// fallbackDirection is the separating direction used when two circles have
// exactly coincident centers. The true direction is undefined there
// (normalizing a zero vector); pushing along +X is arbitrary but
// deterministic, and guarantees the pair still separates instead of
// producing NaN coordinates.
var fallbackDirection = geom.Pt(1, 0)

// Circle is a single circle being packed. Center moves during packing;
// Radius is fixed for the circle's lifetime. Z is carried through untouched
// so results can be committed back into a 3D scene, but all packing math is
// strictly planar.
type Circle struct {
	Center geom.Point
	Z      float64
	Radius float64

	// moved records whether the circle was displaced during the most
	// recent pack pass. Reset at the start of every pass.
	moved bool
}

// NewCircle creates a circle at center with the given radius.
func NewCircle(center geom.Point, radius float64) *Circle {
	return &Circle{Center: center, Radius: radius}
}

// Translate moves the circle center by offset. It always succeeds.
func (c *Circle) Translate(offset geom.Point) {
	c.Center = c.Center.Add(offset)
}

// InMotion reports whether the circle was moved during the most recent
// pack pass.
func (c *Circle) InMotion() bool {
	return c.moved
}

// Bounds returns the axis-aligned box containing the circle.
func (c *Circle) Bounds() geom.Rect {
	return geom.RectAround(c.Center, c.Radius)
}

// collides reports whether c overlaps other beyond the tolerance slack,
// returning the squared center distance and the sum of radii for reuse by
// the resolvers.
func (c *Circle) collides(other *Circle, tolerance float64) (d, r float64, ok bool) {
	d = c.Center.DistanceSquared(other.Center)
	r = c.Radius + other.Radius
	return d, r, d < r*r-overlapSlack*tolerance
}

// separation returns the unit direction pushing c away from other and the
// distance still needed to separate the pair. Coincident centers fall back
// to a fixed direction (see fallbackDirection).
func (c *Circle) separation(other *Circle, d, r float64) (geom.Point, float64) {
	dir := c.Center.Sub(other.Center).Normalize()
	if dir.IsZero() {
		dir = fallbackDirection
	}
	return dir, r - math.Sqrt(d)
}

// ResolveSingle tests c against other and, on collision, moves only c the
// full correction distance along the separating direction. It reports
// whether a collision was resolved.
func (c *Circle) ResolveSingle(other *Circle, tolerance float64) bool {
	d, r, ok := c.collides(other, tolerance)
	if !ok {
		return false
	}
	dir, dist := c.separation(other, d, r)
	c.Translate(dir.Mul(dist))
	c.moved = true
	return true
}

// ResolveMutual tests c against other and, on collision, splits the
// correction evenly: c moves half the distance along the separating
// direction and other moves the exact opposite half. Both circles are
// marked in motion. It reports whether a collision was resolved.
func (c *Circle) ResolveMutual(other *Circle, tolerance float64) bool {
	d, r, ok := c.collides(other, tolerance)
	if !ok {
		return false
	}
	dir, dist := c.separation(other, d, r)
	half := dir.Mul(dist / 2)
	c.Translate(half)
	other.Translate(half.Mul(-1))
	c.moved = true
	other.moved = true
	return true
}
