package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLimit bounds the number of commits a single request may lay out.
const MaxLimit = 100000

// repoNameRegex matches names accepted in the [repos] config table and in
// /api/repos/{name} URLs.
var repoNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateRepoName validates a configured repository name.
//
// Names are URL path segments, so the rules are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, dot, dash and underscore only
//   - No path traversal sequences (..)
func ValidateRepoName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRepo, "repository name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidRepo, "repository name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidRepo, "repository name cannot contain ..")
	}
	if !repoNameRegex.MatchString(name) {
		return New(ErrCodeInvalidRepo, "invalid repository name: %q", name)
	}
	return nil
}

// ValidateRevision validates a revision argument before it reaches go-git.
// It rejects option-looking values and the characters git itself forbids in
// ref names.
func ValidateRevision(rev string) error {
	if rev == "" {
		return New(ErrCodeInvalidRevision, "revision cannot be empty")
	}
	if len(rev) > 256 {
		return New(ErrCodeInvalidRevision, "revision too long (max 256 characters)")
	}
	if strings.HasPrefix(rev, "-") {
		return New(ErrCodeInvalidRevision, "revision cannot start with '-': %q", rev)
	}
	for _, r := range rev {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidRevision, "revision contains invalid characters: %q", rev)
		}
	}
	for _, pattern := range []string{"..", "\\", "?", "*", "[", ":"} {
		if strings.Contains(rev, pattern) {
			return New(ErrCodeInvalidRevision, "revision contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateLimit validates a commit limit. Zero means "use the default".
func ValidateLimit(limit int) error {
	if limit < 0 {
		return New(ErrCodeInvalidInput, "limit cannot be negative: %d", limit)
	}
	if limit > MaxLimit {
		return New(ErrCodeInvalidInput, "limit too large (max %d)", MaxLimit)
	}
	return nil
}

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
