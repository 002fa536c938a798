package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	apperrors "github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/observability"
	"github.com/matzehuels/circlepack/pkg/scene"
)

const backendFile = "file"

// FileStore is a file-based scene store for CLI usage.
// Scenes are stored as JSON files in a directory, one file per scene.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based scene store.
// If baseDir is empty, defaults to ~/.local/share/circlepack/scenes/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "circlepack", "scenes")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create scene dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) scenePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Put stores a scene, replacing any existing file for the same ID.
func (s *FileStore) Put(ctx context.Context, sc scene.Scene) error {
	if err := apperrors.ValidateSceneID(sc.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := scene.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(s.scenePath(sc.ID), data, 0644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}

	observability.Store().OnPut(ctx, backendFile, sc.ID, len(data))
	return nil
}

// Get retrieves a scene by ID.
func (s *FileStore) Get(ctx context.Context, id string) (scene.Scene, error) {
	if err := apperrors.ValidateSceneID(id); err != nil {
		return scene.Scene{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.scenePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnGet(ctx, backendFile, id, false)
			return scene.Scene{}, ErrNotFound
		}
		return scene.Scene{}, fmt.Errorf("read scene file: %w", err)
	}

	sc, err := scene.Unmarshal(data)
	if err != nil {
		return scene.Scene{}, err
	}
	observability.Store().OnGet(ctx, backendFile, id, true)
	return sc, nil
}

// List returns all stored scenes, newest first. Files that fail to parse
// are skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]scene.Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read scene dir: %w", err)
	}

	var out []scene.Scene
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		sc, err := scene.Unmarshal(data)
		if err != nil {
			continue
		}
		out = append(out, sc)
	}

	slices.SortFunc(out, func(a, b scene.Scene) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// Delete removes a scene file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := apperrors.ValidateSceneID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.scenePath(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove scene file: %w", err)
	}
	observability.Store().OnDelete(ctx, backendFile, id)
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
