package legi

import "fmt"

// ClassificationError is returned when an entry path does not follow the
// archive layout or names an unknown document kind.
type ClassificationError struct {
	Path   string
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify %q: %s", e.Path, e.Reason)
}

// IntegrityViolation is returned when a decoded document contradicts the
// identity derived from its path, or has an unexpected shape.
type IntegrityViolation struct {
	Path     string
	Check    string
	Expected string
	Actual   string
}

func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("integrity violation in %q: %s: expected %q, got %q", e.Path, e.Check, e.Expected, e.Actual)
}

func classificationError(path, format string, args ...any) error {
	return &ClassificationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func integrityViolation(path, check, expected, actual string) error {
	return &IntegrityViolation{Path: path, Check: check, Expected: expected, Actual: actual}
}
