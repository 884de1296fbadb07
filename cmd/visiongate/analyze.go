package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"visiongate/internal/analyzer"
	"visiongate/internal/config"
	"visiongate/internal/imaging"
)

// backendFactory builds the analysis backend for the analyze-image command.
// Tests inject a factory to count invocations without spawning anything.
type backendFactory func(cfg *config.VisionConfig) analyzer.AnalysisBackend

// newAnalyzeImageCmd creates the interactive image analysis command.
// A nil factory uses the CLI backend from configuration.
func newAnalyzeImageCmd(factory backendFactory) *cobra.Command {
	if factory == nil {
		factory = func(cfg *config.VisionConfig) analyzer.AnalysisBackend {
			return analyzer.NewCLIBackend(cfg, logger)
		}
	}

	return &cobra.Command{
		Use:   "analyze-image <path>",
		Short: "Describe an image with the secondary vision model",
		Long: `Sends an image to the configured vision-capable model and renders the
returned description in the terminal. Press Esc or Ctrl+C to cancel a
running analysis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyzeImage(cmd, args, factory)
		},
	}
}

func runAnalyzeImage(cmd *cobra.Command, args []string, factory backendFactory) error {
	// Validate arguments before touching the backend or the terminal so a
	// bad invocation never costs a subprocess.
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("usage: visiongate analyze-image <path>")
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}
	mimeType, ok := imaging.Classify(path)
	if !ok {
		return fmt.Errorf("%s is not a supported image type (jpg, jpeg, png, gif, webp)", args[0])
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot access image: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("analyze-image needs an interactive terminal; use 'visiongate read' for scripted output")
	}

	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	backend := factory(&cfg.Vision)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	m := newAnalyzeModel(ctx, cancel, backend, path, cfg.Vision.SecondaryModel, cfg.Vision.Prompt)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("display error: %w", err)
	}

	fm, ok := final.(analyzeModel)
	if !ok {
		return fmt.Errorf("unexpected final model state")
	}
	switch {
	case fm.cancelled:
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return nil
	case fm.err != nil:
		return fm.err
	default:
		fmt.Println(renderSummary(path, cfg.Vision.SecondaryModel, mimeType, fm.summary))
		return nil
	}
}

// Messages delivered back to the model when the analysis resolves.
type analysisDoneMsg struct {
	summary string
}

type analysisErrMsg struct {
	err error
}

// analyzeModel is the bubbletea model for a single in-flight analysis.
type analyzeModel struct {
	spinner spinner.Model

	ctx     context.Context
	cancel  context.CancelFunc
	backend analyzer.AnalysisBackend
	path    string
	model   string
	prompt  string

	summary   string
	err       error
	cancelled bool
	done      bool
}

func newAnalyzeModel(ctx context.Context, cancel context.CancelFunc, backend analyzer.AnalysisBackend, path, model, prompt string) analyzeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return analyzeModel{
		spinner: s,
		ctx:     ctx,
		cancel:  cancel,
		backend: backend,
		path:    path,
		model:   model,
		prompt:  prompt,
	}
}

func (m analyzeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startAnalysis())
}

// startAnalysis runs the backend off the UI loop and reports the outcome as
// a message.
func (m analyzeModel) startAnalysis() tea.Cmd {
	return func() tea.Msg {
		raw, err := m.backend.Analyze(m.ctx, m.path, m.prompt)
		if err != nil {
			return analysisErrMsg{err: err}
		}
		return analysisDoneMsg{summary: analyzer.Normalize(raw)}
	}
}

func (m analyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancel()
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case analysisDoneMsg:
		m.summary = msg.summary
		m.done = true
		return m, tea.Quit

	case analysisErrMsg:
		if errors.Is(msg.err, analyzer.ErrCancelled) {
			m.cancelled = true
		} else {
			m.err = msg.err
		}
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m analyzeModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Analyzing %s with %s... (Esc to cancel)",
		m.spinner.View(), filepath.Base(m.path), m.model)
}

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	summaryMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))
)

// renderSummary formats the analysis for terminal display. The summary is
// rendered as markdown when possible; otherwise it is printed as-is.
func renderSummary(path, model, mimeType, summary string) string {
	body := summary
	if renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
		if rendered, err := renderer.Render(summary); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		summaryTitleStyle.Render("Image analysis: "+filepath.Base(path)),
		body,
		summaryMetaStyle.Render(fmt.Sprintf("analyzed with %s (%s)", model, mimeType)),
	)
}
