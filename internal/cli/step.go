package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeytimeline/pkg/pipeline"
	"github.com/matzehuels/sankeytimeline/pkg/render/sink"
)

var (
	stepCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	stepDoneStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	stepTodoStyle   = lipgloss.NewStyle().Foreground(colorDim)
	stepErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// stepCommand creates the step command for replaying a definition.
func (c *CLI) stepCommand() *cobra.Command {
	var (
		opts      pipeline.Options
		lf        layoutFlags
		plain     bool
		auto      time.Duration
		framesDir string
	)

	cmd := &cobra.Command{
		Use:   "step [file]",
		Short: "Replay a definition one step at a time",
		Long: `Rebuild a timeline definition one call at a time (range, nodes, then
links) and show the layout after each step. Every link step re-runs the
incremental adjustment, so you can watch circular links take their side and
nodes shift out of the way.

Keys: → / l / space next, ← / h back, g first, G last, a autoplay, q quit.

With --plain every step is printed as one line instead. --frames writes an SVG per step.`,
		Example: `  sankeytimeline step build.toml
  sankeytimeline step build.toml --auto 500ms
  sankeytimeline step build.toml --plain --frames out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lf.apply(&opts); err != nil {
				return err
			}
			opts.Source = args[0]

			runner := c.newRunner()
			def, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			replay := runner.NewReplay(def, opts)

			if plain || framesDir != "" {
				return runSteps(cmd.Context(), cmd.OutOrStdout(), replay, framesDir)
			}

			m := newStepModel(cmd.Context(), replay, auto)
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(stepModel); ok && fm.err != nil {
				return fm.err
			}
			return nil
		},
	}

	addLayoutFlags(cmd, &opts, &lf)
	cmd.Flags().BoolVar(&plain, "plain", false, "print every step instead of starting the interactive viewer")
	cmd.Flags().DurationVar(&auto, "auto", 0, "advance automatically at this interval (e.g. 500ms)")
	cmd.Flags().StringVar(&framesDir, "frames", "", "write step-NN.svg for every step into this directory")

	return cmd
}

// runSteps walks all steps, printing one line per step and optionally
// writing an SVG frame for each.
func runSteps(ctx context.Context, w io.Writer, replay *pipeline.Replay, framesDir string) error {
	if framesDir != "" {
		if err := os.MkdirAll(framesDir, 0o755); err != nil {
			return err
		}
	}
	width := len(fmt.Sprint(replay.Len()))
	for i := 1; i <= replay.Len(); i++ {
		f, err := replay.Seek(ctx, i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s%s\n",
			StyleDim.Render(fmt.Sprintf("[%*d/%d]", width, f.Step, f.Total)),
			f.Op,
			StyleDim.Render(frameSummary(f)))

		if framesDir != "" {
			path := filepath.Join(framesDir, fmt.Sprintf("step-%02d.svg", f.Step))
			if err := os.WriteFile(path, sink.RenderSVG(f.Layout), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	return nil
}

func frameSummary(f pipeline.Frame) string {
	s := fmt.Sprintf("  %d nodes, %d links", len(f.Layout.Nodes), len(f.Layout.Links))
	if f.Shift != 0 {
		s += fmt.Sprintf(", shift %s", num(f.Shift))
	}
	return s
}

// =============================================================================
// stepModel - Interactive replay
// =============================================================================

type tickMsg time.Time

// stepModel is the bubbletea model of the step viewer. The replay it points
// to is shared between copies of the model.
type stepModel struct {
	ctx      context.Context
	replay   *pipeline.Replay
	frame    pipeline.Frame
	err      error
	interval time.Duration
	playing  bool
	height   int
}

func newStepModel(ctx context.Context, replay *pipeline.Replay, auto time.Duration) stepModel {
	m := stepModel{
		ctx:      ctx,
		replay:   replay,
		interval: auto,
		playing:  auto > 0,
		height:   12,
	}
	if m.interval <= 0 {
		m.interval = 400 * time.Millisecond
	}
	return m.seek(0)
}

func (m stepModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m stepModel) Init() tea.Cmd {
	if m.playing {
		return m.tick()
	}
	return nil
}

// seek moves to step n, clamped to the replay.
func (m stepModel) seek(n int) stepModel {
	n = max(0, min(n, m.replay.Len()))
	f, err := m.replay.Seek(m.ctx, n)
	if err != nil {
		m.err = err
		return m
	}
	m.frame, m.err = f, nil
	return m
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", " ", "n":
			m.playing = false
			return m.seek(m.frame.Step + 1), nil
		case "left", "h", "p":
			m.playing = false
			return m.seek(m.frame.Step - 1), nil
		case "home", "g":
			return m.seek(0), nil
		case "end", "G":
			return m.seek(m.replay.Len()), nil
		case "a":
			m.playing = !m.playing
			if m.playing {
				if m.frame.Step == m.replay.Len() {
					m = m.seek(0)
				}
				return m, m.tick()
			}
		}
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m = m.seek(m.frame.Step + 1)
		if m.err != nil || m.frame.Step == m.replay.Len() {
			m.playing = false
			return m, nil
		}
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-20, 5)
	}
	return m, nil
}

func (m stepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Step %d/%d", m.frame.Step, m.frame.Total)))
	if m.playing {
		b.WriteString(StyleDim.Render("  ▶ playing"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  g/G first/last  a autoplay  q quit"))
	b.WriteString("\n\n")

	ops := m.replay.Ops()
	start := max(0, m.frame.Step-m.height/2)
	end := min(len(ops), start+m.height)
	for i := start; i < end; i++ {
		line := ops[i].String()
		switch {
		case i == m.frame.Step-1:
			b.WriteString(stepCursorStyle.Render("▸ " + line))
		case i < m.frame.Step:
			b.WriteString(stepDoneStyle.Render("  " + line))
		default:
			b.WriteString(stepTodoStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(stepErrStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(StyleDim.Render(strings.TrimSpace(frameSummary(m.frame))))
	b.WriteString("\n")
	if len(m.frame.Layout.Nodes) > 0 {
		b.WriteString(nodeTable(m.frame.Layout).String())
		b.WriteString("\n")
	}
	if len(m.frame.Layout.Links) > 0 {
		b.WriteString(linkTable(m.frame.Layout).String())
		b.WriteString("\n")
	}
	return b.String()
}
