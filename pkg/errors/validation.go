package errors

import (
	"strings"
	"unicode"
)

const (
	maxLabelLen = 200
	maxPathLen  = 500
)

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// ValidateLabel checks a free-text observer label such as a place name.
// Labels are printed in chart titles and hashed into cache keys.
func ValidateLabel(label string) error {
	switch {
	case strings.TrimSpace(label) == "":
		return New(ErrCodeInvalidInput, "label cannot be empty")
	case len(label) > maxLabelLen:
		return New(ErrCodeInvalidInput, "label longer than %d bytes", maxLabelLen)
	case hasControl(label):
		return New(ErrCodeInvalidInput, "label contains control characters")
	}
	return nil
}

// ValidateFilename checks an output base name like "chart" or
// "chart.2021-05-17". Format extensions are appended by the writer.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	case name == "." || name == "..":
		return New(ErrCodeInvalidPath, "output name cannot be %q", name)
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidPath, "output name %q contains a path separator", name)
	case hasControl(name):
		return New(ErrCodeInvalidPath, "output name contains control characters")
	}
	return nil
}

// ValidatePath checks a slash-separated object path relative to a storage
// root, such as "charts/2021/chart.png". Absolute paths, backslashes and
// any ".." element are rejected.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLen:
		return New(ErrCodeInvalidPath, "path longer than %d bytes", maxPathLen)
	case hasControl(path):
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path %q must be relative", path)
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path %q contains a backslash", path)
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return New(ErrCodeInvalidPath, "path %q escapes the storage root", path)
		}
	}
	return nil
}
