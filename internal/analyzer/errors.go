package analyzer

import (
	"errors"
	"fmt"
)

// ErrCancelled indicates the caller cancelled the analysis before the
// subprocess completed. It is distinct from process failure so callers can
// tell "user cancelled" from "failed". Callers detect it with errors.Is.
var ErrCancelled = errors.New("image analysis cancelled")

// SpawnError indicates the analysis program could not be started, typically
// because the binary is missing from PATH.
type SpawnError struct {
	Binary string
	Err    error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start analysis program %q: %v", e.Binary, e.Err)
}

// Unwrap returns the underlying error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError indicates the analysis program exited with a non-zero code.
// Stderr carries the program's accumulated error stream.
type ExitError struct {
	Code   int
	Stderr string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("analysis program exited with code %d", e.Code)
	}
	return fmt.Sprintf("analysis program exited with code %d: %s", e.Code, e.Stderr)
}
