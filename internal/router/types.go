// Package router decides whether a file read is served directly or rerouted
// through the vision analysis pipeline. The decision depends on the active
// model and the file's classification: only image reads under a trigger
// model are delegated; everything else passes through unchanged.
package router

import (
	"context"
	"strings"
)

// Request identifies a single read invocation. Params carries the caller's
// raw tool arguments and is handed to the direct reader verbatim on
// passthrough.
type Request struct {
	Path      string
	RequestID string
	Params    map[string]any
}

// Context is the host execution state for one invocation. It is supplied by
// the caller per call and never retained.
type Context struct {
	// ModelID is the active model identifier.
	ModelID string

	// WorkingDir resolves relative request paths.
	WorkingDir string

	// Interactive reports whether the host has an interactive surface.
	// Progress notifications are only emitted for interactive hosts.
	Interactive bool

	// Notify, when non-nil and the context is interactive, receives at
	// most one progress message before the analysis subprocess is
	// spawned. Level is "info" or "error".
	Notify func(message, level string)
}

// Block is a single piece of result content.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the externally observable artifact of a successful read.
type Result struct {
	Blocks   []Block           `json:"blocks"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Text joins all text blocks with newlines.
func (r *Result) Text() string {
	var texts []string
	for _, b := range r.Blocks {
		if b.Type == "text" {
			texts = append(texts, b.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// DirectReader serves a read without delegation. The router never inspects
// or modifies its output.
type DirectReader interface {
	ReadDirect(ctx context.Context, req Request) (*Result, error)
}
