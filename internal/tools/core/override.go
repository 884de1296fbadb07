package core

import (
	"context"
	"fmt"

	"visiongate/internal/router"
	"visiongate/internal/tools"
)

// InstallVisionOverride replaces the default read tool's execute function
// with the vision router. The tool's declared parameters are unchanged, so
// the host sees an identical read tool; only the behavior behind it differs.
// resolveCtx supplies the host execution state at call time, since the
// active model can change between invocations.
func InstallVisionOverride(reg *tools.Registry, r *router.Router, resolveCtx func() router.Context) error {
	if resolveCtx == nil {
		return fmt.Errorf("resolveCtx is required")
	}

	return reg.Override(ReadToolName, func(ctx context.Context, args map[string]any) (string, error) {
		path, _ := args["path"].(string)
		if path == "" {
			return "", fmt.Errorf("path is required")
		}

		result, err := r.Route(ctx, router.Request{Path: path, Params: args}, resolveCtx())
		if err != nil {
			return "", err
		}
		return result.Text(), nil
	})
}
