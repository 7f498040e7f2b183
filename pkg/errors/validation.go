package errors

import (
	"strings"
	"unicode"
)

// ValidateAssetName validates a script asset name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
//
// Engine-specific naming conventions (e.g. the BP_ prefix) are a style
// concern, not a validity concern, and are not enforced here.
func ValidateAssetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidAsset, "asset name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidAsset, "asset name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidAsset, "asset name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidAsset, "asset name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidAsset, "asset name contains invalid characters: %q", "..")
	}

	return nil
}

// ValidateAssetPath validates a virtual asset path (e.g. "/Game/Doors/BP_Door").
// Asset paths are rooted, forward-slash separated, and free of traversal
// sequences. The ".Name" object suffix used by generated-class references
// ("/Game/X.X_C") is permitted.
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "asset path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "asset path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "asset path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "asset path must be rooted (start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "asset path cannot contain traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "asset path cannot contain backslashes")
	}
	if strings.Contains(path, "//") {
		return New(ErrCodeInvalidPath, "asset path cannot contain empty segments")
	}

	return nil
}

// ValidateOutputPath validates a filesystem output path relative to the
// export root. It prevents traversal outside the export directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative to the export root)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "output path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "output path cannot contain traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "output path cannot contain backslashes")
	}

	return nil
}

// knownFormats is the set of artifact formats the render pipeline produces.
var knownFormats = map[string]bool{
	"json":     true,
	"markdown": true,
	"dot":      true,
	"svg":      true,
	"png":      true,
}

// ValidateFormat validates an artifact format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !knownFormats[format] {
		return New(ErrCodeInvalidFormat, "unknown format: %q (known: json, markdown, dot, svg, png)", format)
	}
	return nil
}
