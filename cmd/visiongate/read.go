package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"visiongate/internal/analyzer"
	"visiongate/internal/config"
	"visiongate/internal/router"
	"visiongate/internal/tools"
	"visiongate/internal/tools/core"
)

var readModel string

// newReadCmd creates the one-shot read command. It installs the vision
// override on a fresh registry and executes the read tool exactly as a host
// agent would, so the full routing path can be exercised from the shell.
func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read [path]",
		Short: "Read a file through the vision router",
		Long: `Reads a file the way a hosting agent would: the read is routed through
the vision pipeline, so image files under a trigger model come back as an
analysis summary while everything else is printed verbatim.

Use --model to simulate the active model driving the routing decision.`,
		Args: cobra.ExactArgs(1),
		RunE: runRead,
	}
	cmd.Flags().StringVar(&readModel, "model", config.DefaultTriggerModels[0],
		"active model identifier used for the routing decision")
	return cmd
}

func runRead(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}

	registry := tools.NewRegistry(logger)
	if err := core.RegisterAll(registry); err != nil {
		return err
	}

	backend := analyzer.NewCLIBackend(&cfg.Vision, logger)
	r := router.New(&cfg.Vision, core.FileReader{}, backend, logger)

	// Progress goes to stderr, and only when a human is watching it.
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	resolveCtx := func() router.Context {
		return router.Context{
			ModelID:     readModel,
			WorkingDir:  workspace,
			Interactive: interactive,
			Notify: func(message, level string) {
				fmt.Fprintln(os.Stderr, message)
			},
		}
	}
	if err := core.InstallVisionOverride(registry, r, resolveCtx); err != nil {
		return err
	}

	result, err := registry.Execute(ctx, core.ReadToolName, map[string]any{"path": args[0]})
	if err != nil {
		if errors.Is(err, analyzer.ErrCancelled) {
			return fmt.Errorf("read cancelled")
		}
		return err
	}

	fmt.Println(result.Result)
	return nil
}
