// Package core provides the default file tools and the vision override
// installer. The read tool doubles as the router's direct-read collaborator
// for passthrough.
package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"visiongate/internal/router"
	"visiongate/internal/tools"
)

// ReadToolName is the tool the vision override replaces.
const ReadToolName = "read_file"

// ReadFileTool returns the default tool for reading file contents.
func ReadFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        ReadToolName,
		Description: "Read the contents of a file",
		Execute:     executeReadFile,
		Schema: tools.Schema{
			Required: []string{"path"},
			Properties: map[string]tools.Property{
				"path": {
					Type:        "string",
					Description: "The file path to read",
				},
				"start_line": {
					Type:        "integer",
					Description: "Starting line number (1-indexed, optional)",
				},
				"end_line": {
					Type:        "integer",
					Description: "Ending line number (inclusive, optional)",
				},
			},
		},
	}
}

func executeReadFile(ctx context.Context, args map[string]any) (string, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return "", fmt.Errorf("path is required")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	result := string(content)

	// Handle line range if specified
	startLine, hasStart := intArg(args, "start_line")
	endLine, hasEnd := intArg(args, "end_line")

	if hasStart || hasEnd {
		lines := strings.Split(result, "\n")

		if !hasStart {
			startLine = 1
		}
		if !hasEnd {
			endLine = len(lines)
		}

		// Convert to 0-indexed
		startLine--
		if startLine < 0 {
			startLine = 0
		}
		if endLine < 0 {
			endLine = 0
		}
		if endLine > len(lines) {
			endLine = len(lines)
		}
		if startLine > endLine {
			startLine = endLine
		}

		result = strings.Join(lines[startLine:endLine], "\n")
	}

	return result, nil
}

// intArg reads an integer argument that may arrive as int or, after JSON
// decoding, as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// FileReader adapts the default read tool to the router's DirectReader
// contract. Request params are passed through verbatim.
type FileReader struct{}

// ReadDirect implements router.DirectReader.
func (FileReader) ReadDirect(ctx context.Context, req router.Request) (*router.Result, error) {
	// Copy before augmenting; the caller's argument map is not ours to mutate.
	params := make(map[string]any, len(req.Params)+1)
	for k, v := range req.Params {
		params[k] = v
	}
	if _, ok := params["path"]; !ok {
		params["path"] = req.Path
	}

	content, err := executeReadFile(ctx, params)
	if err != nil {
		return nil, err
	}

	return &router.Result{
		Blocks: []router.Block{{Type: "text", Text: content}},
	}, nil
}

// RegisterAll registers the default tools with the given registry.
func RegisterAll(registry *tools.Registry) error {
	return registry.Register(ReadFileTool())
}
