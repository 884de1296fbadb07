package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"visiongate/internal/config"
)

// CLIBackend implements AnalysisBackend by executing
// `<binary> @<path> --provider <id> --model <model> -p <prompt> --json`
// and capturing its output streams.
//
// The @ prefix marks the path as a file attachment for the analysis CLI.
// Each invocation owns its own buffers; output is unbounded (a pathological
// analysis process can grow memory without limit), and no timeout is applied
// here: the caller's context governs how long the subprocess may run.
type CLIBackend struct {
	binary   string
	provider string
	model    string
	prompt   string
	logger   *zap.Logger
}

// execCommand is swapped in tests to stub the external analysis program.
var execCommand = exec.CommandContext

// NewCLIBackend creates a CLI analysis backend. If cfg is nil, defaults are
// applied. A nil logger disables logging.
func NewCLIBackend(cfg *config.VisionConfig, logger *zap.Logger) *CLIBackend {
	b := &CLIBackend{
		binary:   config.DefaultBinary,
		provider: config.DefaultProvider,
		model:    config.DefaultSecondaryModel,
		prompt:   config.DefaultPrompt,
		logger:   zap.NewNop(),
	}
	if cfg != nil {
		if cfg.Binary != "" {
			b.binary = cfg.Binary
		}
		if cfg.Provider != "" {
			b.provider = cfg.Provider
		}
		if cfg.SecondaryModel != "" {
			b.model = cfg.SecondaryModel
		}
		if cfg.Prompt != "" {
			b.prompt = cfg.Prompt
		}
	}
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Model returns the secondary model identifier this backend analyzes with.
func (b *CLIBackend) Model() string {
	return b.model
}

// Analyze spawns the analysis program for the image at absPath and resolves
// to its trimmed standard output. Exactly one of success, spawn failure,
// exit failure, or ErrCancelled is produced per call.
func (b *CLIBackend) Analyze(ctx context.Context, absPath, prompt string) (string, error) {
	if prompt == "" {
		prompt = b.prompt
	}

	args := b.buildArgs(absPath, prompt)
	cmd := execCommand(ctx, b.binary, args...)

	// Invocation-scoped buffers; nothing is shared across calls.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	b.logger.Debug("spawning analysis program",
		zap.String("binary", b.binary),
		zap.String("model", b.model),
		zap.String("path", absPath))

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return "", ErrCancelled
		}
		return "", &SpawnError{Binary: b.binary, Err: err}
	}

	waitErr := cmd.Wait()
	if err := classifyOutcome(ctx.Err(), waitErr, stderr.String()); err != nil {
		b.logger.Debug("analysis program failed", zap.Error(err))
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}

// buildArgs constructs the fixed argument template: the target path as an
// attachment, explicit provider and model selection, the instruction as the
// prompt, and machine-readable output.
func (b *CLIBackend) buildArgs(absPath, prompt string) []string {
	return []string{
		"@" + absPath,
		"--provider", b.provider,
		"--model", b.model,
		"-p", prompt,
		"--json",
	}
}

// classifyOutcome maps the terminal state of the subprocess to exactly one
// outcome. Cancellation is checked first so it wins the race against a clean
// exit: even if the process wrote all of its output and exited zero, a
// cancelled context resolves to ErrCancelled, never success.
func classifyOutcome(ctxErr, waitErr error, stderr string) error {
	if ctxErr != nil {
		return ErrCancelled
	}
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr)}
	}
	return fmt.Errorf("analysis program I/O failed: %w", waitErr)
}
