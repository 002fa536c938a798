package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey generates a cache key for a rendered artifact from the scene
// content hash and the render options that shaped the output.
func ArtifactKey(sceneHash, format string, opts any) string {
	data, _ := json.Marshal(opts)
	return fmt.Sprintf("artifact:%s:%s:%s", format, sceneHash, Hash(data))
}
