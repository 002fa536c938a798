package errors

import (
	"strings"
	"unicode"
)

// ValidateSceneID validates a scene ID for safety and correctness.
// Scene IDs name files in the file store and documents in MongoDB, so
// anything that could be used for path traversal is rejected.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSceneID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSceneID, "scene ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidSceneID, "scene ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSceneID, "scene ID contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidSceneID, "scene ID contains invalid characters: %q", pattern)
		}
	}

	return nil
}
