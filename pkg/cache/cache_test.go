package cache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	if _, hit, _ := c.Get(ctx, "scene"); hit {
		t.Error("unexpected hit before Set")
	}

	// Set then Get
	if err := c.Set(ctx, "scene", []byte("svg-bytes"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "scene")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || string(data) != "svg-bytes" {
		t.Errorf("Get = %q, hit=%v", data, hit)
	}

	// Delete removes the entry
	if err := c.Delete(ctx, "scene"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "scene"); hit {
		t.Error("entry should be gone after Delete")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Already-expired entry reads as a miss.
	if err := c.Set(ctx, "old", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL means no expiration.
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

// entryFiles returns the entry files currently stored under dir.
func entryFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking cache dir: %v", err)
	}
	return files
}

func TestFileCacheRemovesExpiredEntryOnRead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "stale", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := len(entryFiles(t, dir)); got != 1 {
		t.Fatalf("entry files = %d, want 1", got)
	}

	if _, hit, err := c.Get(ctx, "stale"); err != nil || hit {
		t.Errorf("Get = hit=%v err=%v, want miss", hit, err)
	}
	if got := len(entryFiles(t, dir)); got != 0 {
		t.Errorf("expired entry still on disk (%d files)", got)
	}
}

func TestFileCacheHealsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "scene", []byte("svg-bytes"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	files := entryFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("entry files = %d, want 1", len(files))
	}
	if err := os.WriteFile(files[0], []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	if _, hit, err := c.Get(ctx, "scene"); err != nil || hit {
		t.Errorf("Get = hit=%v err=%v, want clean miss", hit, err)
	}
	if got := len(entryFiles(t, dir)); got != 0 {
		t.Errorf("corrupt entry still on disk (%d files)", got)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	type opts struct{ Stroke float64 }

	k1 := ArtifactKey("scenehash", "svg", opts{Stroke: 1})
	k2 := ArtifactKey("scenehash", "svg", opts{Stroke: 2})
	if k1 == k2 {
		t.Error("different render options should produce different keys")
	}

	k3 := ArtifactKey("scenehash", "png", opts{Stroke: 1})
	if k1 == k3 {
		t.Error("different formats should produce different keys")
	}

	if k1 != ArtifactKey("scenehash", "svg", opts{Stroke: 1}) {
		t.Error("keys should be deterministic")
	}
}
