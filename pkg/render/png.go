package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/circlepack/pkg/scene"
)

// Default raster dimensions in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// PNGOption configures PNG rendering via [PNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width  int
	height int
	margin float64
	marker bool
}

// WithPNGSize sets the output dimensions in pixels.
func WithPNGSize(width, height int) PNGOption {
	return func(r *pngRenderer) { r.width, r.height = width, height }
}

// WithPNGMargin sets the padding around the scene bounds, in scene units.
func WithPNGMargin(m float64) PNGOption { return func(r *pngRenderer) { r.margin = m } }

// WithPNGReferenceMarker draws a cross at the reference point.
func WithPNGReferenceMarker() PNGOption { return func(r *pngRenderer) { r.marker = true } }

// PNG renders a scene as a raster image. The scene is scaled uniformly to
// fit the viewport (preserving aspect ratio) and centered.
func PNG(s scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: DefaultWidth, height: DefaultHeight, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width < 1 || r.height < 1 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", r.width, r.height)
	}

	sceneW := s.Bounds.Width() + 2*r.margin
	sceneH := s.Bounds.Height() + 2*r.margin
	if sceneW <= 0 || sceneH <= 0 {
		return nil, fmt.Errorf("scene has empty bounds")
	}
	scale := min(float64(r.width)/sceneW, float64(r.height)/sceneH)
	center := s.Bounds.Center()

	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Map scene coordinates onto the pixel grid: scene center lands on
	// the image center.
	toX := func(x float64) float64 { return float64(r.width)/2 + (x-center.X)*scale }
	toY := func(y float64) float64 { return float64(r.height)/2 + (y-center.Y)*scale }

	for i, c := range s.Circles {
		dc.DrawCircle(toX(c.X), toY(c.Y), c.Radius*scale)
		dc.SetColor(palette(i, len(s.Circles)))
		dc.FillPreserve()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.SetLineWidth(DefaultStrokeWidth * scale)
		dc.Stroke()
	}

	if r.marker {
		size := r.margin / 2 * scale
		x, y := toX(s.Reference.X), toY(s.Reference.Y)
		dc.SetRGB(0.88, 0.19, 0.19)
		dc.SetLineWidth(2)
		dc.DrawLine(x-size, y, x+size, y)
		dc.DrawLine(x, y-size, x, y+size)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
