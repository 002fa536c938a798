// Package store persists packed scenes.
//
// A [Store] is where the driver commits final circle geometry once a
// packing run ends. Three backends cover the deployment spectrum:
//
//   - [MemoryStore]: in-process map, for testing
//   - [FileStore]: one JSON document per scene, for CLI usage
//   - [MongoStore]: durable document storage, for the API server
//
// [Index] is a separate Redis-backed lookup from pack-parameter hash to
// scene ID. Runs are deterministic given their parameters, so the index
// lets identical requests share one stored scene instead of re-packing.
//
// Commit semantics (replace vs append) belong to callers: Put replaces any
// scene with the same ID and nothing more.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/circlepack/pkg/scene"
)

// ErrNotFound is returned when a requested scene does not exist.
var ErrNotFound = errors.New("scene not found")

// Store persists packed scenes keyed by their ID.
type Store interface {
	// Put stores a scene, replacing any existing scene with the same ID.
	Put(ctx context.Context, s scene.Scene) error

	// Get retrieves a scene by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (scene.Scene, error)

	// List returns all stored scenes, newest first.
	List(ctx context.Context) ([]scene.Scene, error)

	// Delete removes a scene. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close(ctx context.Context) error
}
