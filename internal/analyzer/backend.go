// Package analyzer obtains image descriptions from a vision-capable model
// by spawning an external analysis CLI as a subprocess. The subprocess is
// treated as a synchronous remote call: one process per invocation, no
// pooling, no retries.
package analyzer

import "context"

// AnalysisBackend abstracts how an image is analyzed. The CLI subprocess is
// the default implementation; an in-process or HTTP backend can substitute
// without touching the router.
type AnalysisBackend interface {
	// Analyze describes the image at absPath using the given instruction.
	// It returns the backend's raw output text, or an error classified as
	// spawn failure, exit failure, or cancellation (ErrCancelled).
	Analyze(ctx context.Context, absPath, prompt string) (string, error)
}
