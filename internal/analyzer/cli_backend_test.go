package analyzer

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"visiongate/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubCommand replaces the spawned analysis program with a shell script for
// the duration of one test.
func stubCommand(t *testing.T, script string) {
	t.Helper()
	orig := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	t.Cleanup(func() { execCommand = orig })
}

func TestBuildArgs(t *testing.T) {
	b := NewCLIBackend(&config.VisionConfig{
		SecondaryModel: "gemini-2.5-flash",
		Provider:       "google",
		Binary:         "opencode",
	}, nil)

	got := b.buildArgs("/work/diagram.png", "Describe this image.")
	want := []string{
		"@/work/diagram.png",
		"--provider", "google",
		"--model", "gemini-2.5-flash",
		"-p", "Describe this image.",
		"--json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCLIBackendDefaults(t *testing.T) {
	b := NewCLIBackend(nil, nil)
	assert.Equal(t, config.DefaultBinary, b.binary)
	assert.Equal(t, config.DefaultProvider, b.provider)
	assert.Equal(t, config.DefaultSecondaryModel, b.Model())
	assert.Equal(t, config.DefaultPrompt, b.prompt)

	// Partial config keeps defaults for the empty fields.
	b = NewCLIBackend(&config.VisionConfig{SecondaryModel: "custom-vision"}, nil)
	assert.Equal(t, "custom-vision", b.Model())
	assert.Equal(t, config.DefaultBinary, b.binary)
}

func TestClassifyOutcome(t *testing.T) {
	realExitErr := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, realExitErr)

	tests := []struct {
		name    string
		ctxErr  error
		waitErr error
		stderr  string
		check   func(t *testing.T, err error)
	}{
		{
			name: "clean exit",
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "cancelled before wait error",
			ctxErr: context.Canceled,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrCancelled)
			},
		},
		{
			// The race: process finished cleanly but the context was
			// cancelled. Cancellation wins; a clean exit never masks it.
			name:   "cancelled with clean exit",
			ctxErr: context.Canceled,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrCancelled)
			},
		},
		{
			name:    "cancelled masks exit failure",
			ctxErr:  context.DeadlineExceeded,
			waitErr: realExitErr,
			stderr:  "killed",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrCancelled)
			},
		},
		{
			name:    "nonzero exit",
			waitErr: realExitErr,
			stderr:  "model unavailable\n",
			check: func(t *testing.T, err error) {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 3, exitErr.Code)
				assert.Equal(t, "model unavailable", exitErr.Stderr)
			},
		},
		{
			name:    "io failure",
			waitErr: errors.New("broken pipe"),
			check: func(t *testing.T, err error) {
				var exitErr *ExitError
				assert.False(t, errors.As(err, &exitErr))
				assert.ErrorContains(t, err, "broken pipe")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, classifyOutcome(tt.ctxErr, tt.waitErr, tt.stderr))
		})
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	stubCommand(t, `printf 'analyzed output\n'`)

	b := NewCLIBackend(nil, nil)
	got, err := b.Analyze(context.Background(), "/tmp/a.png", "")
	require.NoError(t, err)
	assert.Equal(t, "analyzed output", got, "stdout is trimmed")
}

func TestAnalyzeExitFailure(t *testing.T) {
	stubCommand(t, `echo 'model unavailable' >&2; exit 1`)

	b := NewCLIBackend(nil, nil)
	_, err := b.Analyze(context.Background(), "/tmp/a.png", "")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "model unavailable", exitErr.Stderr)
}

func TestAnalyzeSpawnFailure(t *testing.T) {
	b := NewCLIBackend(&config.VisionConfig{
		Binary: "/nonexistent/visiongate-test-binary",
	}, nil)

	_, err := b.Analyze(context.Background(), "/tmp/a.png", "")

	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "/nonexistent/visiongate-test-binary", spawnErr.Binary)
}

func TestAnalyzePreCancelledContext(t *testing.T) {
	stubCommand(t, `printf 'should not matter'`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewCLIBackend(nil, nil)
	_, err := b.Analyze(ctx, "/tmp/a.png", "")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestAnalyzeMidFlightCancel(t *testing.T) {
	stubCommand(t, `sleep 30`)

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(50*time.Millisecond, cancel)
	defer timer.Stop()
	defer cancel()

	b := NewCLIBackend(nil, nil)
	start := time.Now()
	_, err := b.Analyze(ctx, "/tmp/a.png", "")

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Less(t, time.Since(start), 10*time.Second, "cancellation must not wait for the subprocess to finish naturally")
}
