// Package scene defines the canonical serialization format for packed
// circle arrangements. Used for API responses, storage, caching, and
// committing results into external documents.
//
// The format is human-readable and designed for round-trip fidelity:
// pack → export → re-import → render produces identical results.
package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/circlepack/pkg/geom"
	"github.com/matzehuels/circlepack/pkg/pack"
)

// Circle is one committed circle. Z carries the plane offset for 3D
// documents; packing itself is strictly planar.
type Circle struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Z      float64 `json:"z,omitempty" bson:"z,omitempty"`
	Radius float64 `json:"radius" bson:"radius"`
}

// Params records the inputs that produced a scene. Together with the seed
// they fully determine the result, which is what makes scenes cacheable by
// input hash.
type Params struct {
	Count      int     `json:"count" bson:"count"`
	MinRadius  float64 `json:"min_radius" bson:"min_radius"`
	MaxRadius  float64 `json:"max_radius" bson:"max_radius"`
	Algorithm  string  `json:"algorithm" bson:"algorithm"`
	Damping    float64 `json:"damping,omitempty" bson:"damping,omitempty"`
	Decay      float64 `json:"decay,omitempty" bson:"decay,omitempty"`
	Tolerance  float64 `json:"tolerance,omitempty" bson:"tolerance,omitempty"`
	Iterations int     `json:"iterations,omitempty" bson:"iterations,omitempty"`
	Seed       uint64  `json:"seed" bson:"seed"`
}

// Scene is a packed arrangement ready to commit to a persistent document.
type Scene struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Reference geom.Point `json:"reference" bson:"reference"`
	Bounds    geom.Rect  `json:"bounds" bson:"bounds"`
	Circles   []Circle   `json:"circles" bson:"circles"`

	Params     Params `json:"params" bson:"params"`
	Iterations int    `json:"iterations" bson:"iterations"`
	Converged  bool   `json:"converged" bson:"converged"`
}

// FromPacker snapshots the packer's final state into a Scene with a fresh
// ID. The result reflects how the run ended; the packer stays untouched and
// can keep iterating afterwards.
func FromPacker(p *pack.Packer, params Params, result pack.Result) Scene {
	circles := make([]Circle, len(p.Circles()))
	for i, c := range p.Circles() {
		circles[i] = Circle{X: c.Center.X, Y: c.Center.Y, Z: c.Z, Radius: c.Radius}
	}

	return Scene{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Reference:  p.Reference(),
		Bounds:     p.Bounds(),
		Circles:    circles,
		Params:     params,
		Iterations: result.Iterations,
		Converged:  result.Converged,
	}
}

// Marshal serializes a scene to indented JSON.
func Marshal(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes to a Scene.
func Unmarshal(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	return s, nil
}

// Read reads a JSON scene from r.
func Read(r io.Reader) (Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Scene{}, fmt.Errorf("read scene: %w", err)
	}
	return Unmarshal(data)
}
