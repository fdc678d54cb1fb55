package errors

import (
	"regexp"
	"strings"
)

// boreholeIDRegex matches borehole identifiers such as "BH01", "BH-1A" or "TP_03".
var boreholeIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateBoreholeID validates a borehole identifier.
// Identifiers end up in output file names and cache keys, so they must be
// short, printable, and free of path separators.
func ValidateBoreholeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "borehole id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidID, "borehole id too long (max 64 characters)")
	}
	if !boreholeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid borehole id: %q", id)
	}
	return nil
}

// ValidateFilenameBase validates an output file name prefix.
// It must be a simple basename without path components.
func ValidateFilenameBase(base string) error {
	if base == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}
	if strings.ContainsAny(base, "/\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators")
	}
	if strings.HasPrefix(base, ".") {
		return New(ErrCodeInvalidPath, "output name cannot be a hidden file")
	}
	return nil
}
