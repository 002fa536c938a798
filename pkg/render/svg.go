// Package render provides output sinks for packed scenes.
//
// A sink transforms a [scene.Scene] into a final output format. Two
// renderers are provided:
//
//   - SVG: scalable vector output, one <circle> element per circle
//   - PNG: raster output drawn with fogleman/gg
//
// Both use a deterministic palette so the same scene always renders to the
// same bytes, which is what makes rendered artifacts cacheable by content
// hash.
package render

import (
	"bytes"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/circlepack/pkg/scene"
)

// Default rendering parameters shared by both sinks.
const (
	// DefaultMargin is the padding around the scene bounds, in scene units.
	DefaultMargin = 2.0

	// DefaultStrokeWidth is the circle outline width, in scene units.
	DefaultStrokeWidth = 0.1
)

// palette returns the fill color for circle i of n. Hues are spread evenly
// around the wheel so neighboring indices stay distinguishable.
func palette(i, n int) colorful.Color {
	if n < 1 {
		n = 1
	}
	hue := float64(i%n) / float64(n) * 360
	return colorful.Hsv(hue, 0.55, 0.92)
}

// SVGOption configures SVG rendering via [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin      float64
	strokeWidth float64
	marker      bool
	frame       bool
}

// WithSVGMargin sets the padding around the scene bounds, in scene units.
func WithSVGMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithSVGStrokeWidth sets the circle outline width, in scene units.
func WithSVGStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }

// WithSVGReferenceMarker draws a cross at the reference point the
// arrangement contracted toward.
func WithSVGReferenceMarker() SVGOption { return func(r *svgRenderer) { r.marker = true } }

// WithSVGFrame draws the scene bounding box.
func WithSVGFrame() SVGOption { return func(r *svgRenderer) { r.frame = true } }

// SVG renders a scene as a standalone SVG document. The viewport is the
// scene bounds plus a margin; circle coordinates pass through untouched so
// the output is resolution-independent.
func SVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{margin: DefaultMargin, strokeWidth: DefaultStrokeWidth}
	for _, opt := range opts {
		opt(&r)
	}

	minX := s.Bounds.Min.X - r.margin
	minY := s.Bounds.Min.Y - r.margin
	width := s.Bounds.Width() + 2*r.margin
	height := s.Bounds.Height() + 2*r.margin

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
		minX, minY, width, height)

	if r.frame {
		fmt.Fprintf(&b, `  <rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="#cccccc" stroke-width="%g"/>`+"\n",
			s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Width(), s.Bounds.Height(), r.strokeWidth)
	}

	for i, c := range s.Circles {
		fill := palette(i, len(s.Circles))
		fmt.Fprintf(&b, `  <circle cx="%g" cy="%g" r="%g" fill="%s" stroke="#333333" stroke-width="%g"/>`+"\n",
			c.X, c.Y, c.Radius, fill.Hex(), r.strokeWidth)
	}

	if r.marker {
		size := r.margin / 2
		fmt.Fprintf(&b, `  <path d="M %g %g L %g %g M %g %g L %g %g" stroke="#e03030" stroke-width="%g"/>`+"\n",
			s.Reference.X-size, s.Reference.Y, s.Reference.X+size, s.Reference.Y,
			s.Reference.X, s.Reference.Y-size, s.Reference.X, s.Reference.Y+size,
			r.strokeWidth)
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}
