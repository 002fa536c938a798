// Package pkg provides the core libraries for circlepack.
//
// # Overview
//
// Circlepack relaxes a randomized set of circles into a tight,
// non-overlapping arrangement around a reference point, then commits the
// result as a scene that can be stored, indexed, and rendered. The pkg
// directory is organized into these areas:
//
//  1. [pack] - The relaxation engine (collision resolution, ordering, driver loop)
//  2. [scene] - The canonical serialization format for packed arrangements
//  3. [store] - Scene persistence (in-memory, file, MongoDB) plus the Redis index
//  4. [render] - Output sinks (SVG, PNG)
//  5. [cache] - Content-addressed caching of rendered artifacts
//  6. [observability] - Hook interfaces for instrumenting runs and stores
//
// # Architecture
//
// The typical data flow through circlepack:
//
//	Packing parameters (count, radii, algorithm, seed)
//	         ↓
//	    [pack] package (randomized placement + iterative relaxation)
//	         ↓
//	    [scene] package (snapshot the converged arrangement)
//	         ↓
//	    [store] package (commit the scene, bind it in the index)
//	         ↓
//	    [render] package (SVG/PNG output)
//
// Supporting packages: [geom] provides the shared point and rectangle
// types, [errors] the structured error codes used by the CLI and API, and
// [buildinfo] the ldflags-injected version information.
//
// # Quick Start
//
// Pack circles and render the result:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/circlepack/pkg/geom"
//	    "github.com/matzehuels/circlepack/pkg/pack"
//	    "github.com/matzehuels/circlepack/pkg/render"
//	    "github.com/matzehuels/circlepack/pkg/scene"
//	)
//
//	packer, err := pack.New(geom.Pt(0, 0), pack.Options{
//	    Count:     32,
//	    MinRadius: 1,
//	    MaxRadius: 3,
//	    Seed:      42,
//	})
//	if err != nil {
//	    return err
//	}
//
//	runner := pack.NewRunner(nil)
//	result, err := runner.Run(context.Background(), packer, pack.RunOptions{
//	    Algorithm: pack.AlgorithmDouble,
//	})
//	if err != nil {
//	    return err
//	}
//
//	sc := scene.FromPacker(packer, scene.Params{Count: 32, Seed: 42}, result)
//	svg := render.SVG(sc)
package pkg
