// Package main provides the visiongate CLI entry point.
// visiongate reroutes image file reads through a vision-capable model when
// the active coding model cannot see images.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"visiongate/internal/config"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "visiongate",
	Short: "visiongate - model-aware image read delegation",
	Long: `visiongate intercepts file reads made by text-only coding models and
reroutes image files through an external vision-capable analysis CLI.
The normalized description replaces the file content, so the active model
can reason about screenshots, diagrams, and photos it cannot see itself.

Reads by vision-capable models, and reads of non-image files, pass through
to the ordinary read tool unchanged.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
		}

		// The --verbose flag wins; otherwise the workspace config decides.
		cfg, err := config.Load(workspace)
		if err != nil {
			return err
		}
		logger, err = newLogger(verbose || cfg.Logging.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newLogger builds the process logger, at debug level when requested.
func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current directory)")

	rootCmd.AddCommand(newAnalyzeImageCmd(nil))
	rootCmd.AddCommand(newReadCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
