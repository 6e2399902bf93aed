package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePath validates a map or tile file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateName validates a tile or map name.
// Names must be non-empty, at most 128 characters, and free of control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateTransform checks a placement transform [a, b, c, d, e, f].
// Every entry must be finite and the linear part must be invertible.
func ValidateTransform(m [6]float64) error {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidTransform, "transform %v has non-finite entries", m)
		}
	}
	if math.Abs(m[0]*m[3]-m[1]*m[2]) < 1e-9 {
		return New(ErrCodeInvalidTransform, "transform %v is not invertible", m)
	}
	return nil
}
