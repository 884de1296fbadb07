package router

import "fmt"

// DelegationError marks a failed image delegation. A failed delegation
// yields no usable content, so it surfaces as a hard error for the caller's
// presentation layer rather than a silent fallback to the raw file.
type DelegationError struct {
	Path  string
	Model string
	Err   error
}

// Error implements the error interface.
func (e *DelegationError) Error() string {
	return fmt.Sprintf("image analysis failed for %s (model %s): %v. "+
		"Common causes: unsupported image format, or the analysis provider is unreachable.",
		e.Path, e.Model, e.Err)
}

// Unwrap returns the underlying backend error, so callers can still detect
// cancellation with errors.Is(err, analyzer.ErrCancelled).
func (e *DelegationError) Unwrap() error {
	return e.Err
}
