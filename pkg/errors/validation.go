package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxTextLength bounds free-text form fields. The blank-space poster fits
// its text to the top half of the page, so anything longer than a few
// paragraphs renders at the minimum size anyway.
const MaxTextLength = 2000

// ValidateText validates a free-text form field.
//
// Validation rules:
//   - Maximum of limit runes (MaxTextLength when limit <= 0)
//   - No control characters other than tab, newline and carriage return
//
// Empty text is valid; templates decide which fields are required.
func ValidateText(field, text string, limit int) error {
	if limit <= 0 {
		limit = MaxTextLength
	}
	if n := len([]rune(text)); n > limit {
		return New(ErrCodeInvalidInput, "%s is too long (%d characters, max %d)", field, n, limit)
	}
	for _, r := range text {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateFilename validates a suggested download filename.
// It must be a simple basename without path components or hidden-file prefix.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}
	return nil
}

// SanitizeFilename turns user text (a city name, for example) into a safe
// filename stem. Path separators, control characters and leading dots are
// dropped; runs of whitespace become single underscores.
func SanitizeFilename(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte('_')
		}
		space = false
		b.WriteRune(r)
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "poster"
	}
	return out
}

// ValidatePath validates a local file path given on the command line or in
// the config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) once cleaned, for relative paths
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !filepath.IsAbs(path) {
		clean := filepath.Clean(path)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return New(ErrCodeInvalidPath, "path cannot escape the working directory (..)")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
