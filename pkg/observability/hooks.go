// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about packing runs and scene store
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the engine dependency-free from observability
// frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPackHooks(&myPackHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pack().OnRunStart(ctx, algorithm, count)
//	// ... iterate ...
//	observability.Pack().OnRunComplete(ctx, algorithm, iterations, converged, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pack Hooks
// =============================================================================

// PackHooks receives events from the packing driver loop.
type PackHooks interface {
	// OnRunStart records the beginning of a packing run.
	OnRunStart(ctx context.Context, algorithm string, circleCount int)

	// OnIteration records a completed pack pass and whether it resolved
	// any collisions.
	OnIteration(ctx context.Context, iteration int, collided bool)

	// OnRunComplete records the end of a packing run.
	OnRunComplete(ctx context.Context, algorithm string, iterations int, converged bool, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from scene store operations.
type StoreHooks interface {
	// OnPut records a scene write.
	OnPut(ctx context.Context, backend, sceneID string, size int)

	// OnGet records a scene read and whether it was found.
	OnGet(ctx context.Context, backend, sceneID string, found bool)

	// OnDelete records a scene removal.
	OnDelete(ctx context.Context, backend, sceneID string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPackHooks is a no-op implementation of PackHooks.
type NoopPackHooks struct{}

func (NoopPackHooks) OnRunStart(context.Context, string, int) {}
func (NoopPackHooks) OnIteration(context.Context, int, bool)  {}
func (NoopPackHooks) OnRunComplete(context.Context, string, int, bool, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnPut(context.Context, string, string, int)  {}
func (NoopStoreHooks) OnGet(context.Context, string, string, bool) {}
func (NoopStoreHooks) OnDelete(context.Context, string, string)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	packHooks  PackHooks  = NoopPackHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetPackHooks registers custom pack hooks.
// This should be called once at application startup before any packing runs.
func SetPackHooks(h PackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		packHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Pack returns the registered pack hooks.
func Pack() PackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return packHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	packHooks = NoopPackHooks{}
	storeHooks = NoopStoreHooks{}
}
