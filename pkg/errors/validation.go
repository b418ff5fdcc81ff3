package errors

import (
	"regexp"
)

// kindRegex matches fractal kind identifiers: lowercase, starting with a letter.
var kindRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidateKind checks that a fractal kind is a usable identifier.
// Kinds appear in file names, cache keys and URL paths, so they are kept to a
// conservative character set.
func ValidateKind(kind string) error {
	if kind == "" {
		return New(ErrCodeInvalidKind, "fractal kind cannot be empty")
	}
	if !kindRegex.MatchString(kind) {
		return New(ErrCodeInvalidKind, "invalid fractal kind: %q (lowercase letters, digits and '-', max 32)", kind)
	}
	return nil
}

// ValidateIntRange checks lo <= v <= hi and reports the named bound that was
// violated together with the offending value.
func ValidateIntRange(name string, v, lo, hi int) error {
	if v < lo {
		return New(ErrCodeInvalidArgument, "%s %d is below the minimum %d (valid range <%d, %d>)", name, v, lo, lo, hi)
	}
	if v > hi {
		return New(ErrCodeInvalidArgument, "%s %d is above the maximum %d (valid range <%d, %d>)", name, v, hi, lo, hi)
	}
	return nil
}
