package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/circlepack/pkg/observability"
	"github.com/matzehuels/circlepack/pkg/scene"
)

const backendMemory = "memory"

// MemoryStore is an in-process scene store for testing.
type MemoryStore struct {
	mu     sync.RWMutex
	scenes map[string]scene.Scene
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenes: make(map[string]scene.Scene)}
}

// Put stores a scene, replacing any existing scene with the same ID.
func (s *MemoryStore) Put(ctx context.Context, sc scene.Scene) error {
	s.mu.Lock()
	s.scenes[sc.ID] = sc
	s.mu.Unlock()

	observability.Store().OnPut(ctx, backendMemory, sc.ID, len(sc.Circles))
	return nil
}

// Get retrieves a scene by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (scene.Scene, error) {
	s.mu.RLock()
	sc, ok := s.scenes[id]
	s.mu.RUnlock()

	observability.Store().OnGet(ctx, backendMemory, id, ok)
	if !ok {
		return scene.Scene{}, ErrNotFound
	}
	return sc, nil
}

// List returns all stored scenes, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]scene.Scene, error) {
	s.mu.RLock()
	out := make([]scene.Scene, 0, len(s.scenes))
	for _, sc := range s.scenes {
		out = append(out, sc)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b scene.Scene) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// Delete removes a scene.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.scenes[id]
	delete(s.scenes, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	observability.Store().OnDelete(ctx, backendMemory, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
