package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "stitch.dev/pkg/stitch/internal/model"
)

const recentFilesShown = 8

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	recentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TUI implements UI using Bubble Tea for interactive weave progress.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in weave mode. List mode needs no
// interactive surface, so it stays a plain print.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{}
	for _, option := range options {
		option(&config)
	}

	if config.mode != ModeWeave {
		return nil
	}

	model := newWeaveModel(config.total)
	t.program = tea.NewProgram(model, tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Close stops the program if one is running.
func (t *TUI) Close(_ context.Context) {
	if t.program != nil {
		t.program.Quit()
	}
}

// Wait blocks until the program exits.
func (t *TUI) Wait(_ context.Context) {
	if t.done != nil {
		<-t.done
	}
}

// DisplayStructures prints the structure listing without entering the
// interactive mode.
func (t *TUI) DisplayStructures(ctx context.Context, rows []StructureRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\n%s", renderStructureTable(rows))

	return err
}

// DisplayWeaveStarting forwards the current file to the progress model.
func (t *TUI) DisplayWeaveStarting(ctx context.Context, source m.Path) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(weaveStartedMsg{source: source})
}

// DisplayFileResult forwards a finished file to the progress model.
func (t *TUI) DisplayFileResult(ctx context.Context, report m.FileReport) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(fileResultMsg{report: report})
}

// DisplaySummary prints the summary after the program has stopped.
func (t *TUI) DisplaySummary(ctx context.Context, stats m.WeaveStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\nWove %d of %d file(s), contract coverage %.2f%%\n",
		stats.Woven, stats.Files, stats.Coverage()*100)

	return err
}

// DisplayDiff prints a unified diff between the original and woven source.
func (t *TUI) DisplayDiff(ctx context.Context, source m.Path, original, woven string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := renderUnifiedDiff(source, original, woven)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(t.output, diff)

	return err
}

type weaveStartedMsg struct {
	source m.Path
}

type fileResultMsg struct {
	report m.FileReport
}

// weaveModel is the Bubble Tea model for the weaving progress display.
type weaveModel struct {
	spinner  spinner.Model
	progress progress.Model
	total    int
	finished int
	current  m.Path
	recent   []string
	quitting bool
}

func newWeaveModel(total int) weaveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return weaveModel{
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		total:    total,
	}
}

func (wm weaveModel) Init() tea.Cmd {
	return wm.spinner.Tick
}

func (wm weaveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			wm.quitting = true
			return wm, tea.Quit
		}

		return wm, nil

	case weaveStartedMsg:
		wm.current = msg.source
		return wm, nil

	case fileResultMsg:
		wm.finished++
		wm.recent = append(wm.recent, renderResultLine(msg.report))

		if len(wm.recent) > recentFilesShown {
			wm.recent = wm.recent[len(wm.recent)-recentFilesShown:]
		}

		if wm.total > 0 {
			return wm, wm.progress.SetPercent(float64(wm.finished) / float64(wm.total))
		}

		return wm, nil

	case progress.FrameMsg:
		model, cmd := wm.progress.Update(msg)
		wm.progress = model.(progress.Model)

		return wm, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		wm.spinner, cmd = wm.spinner.Update(msg)

		return wm, cmd
	}

	return wm, nil
}

func (wm weaveModel) View() string {
	if wm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Stitch - contract weaving"))
	b.WriteString("\n\n")

	if wm.current != "" && wm.finished < wm.total {
		fmt.Fprintf(&b, "%s weaving %s\n", wm.spinner.View(), wm.current)
	}

	fmt.Fprintf(&b, "%s %d/%d\n\n", wm.progress.View(), wm.finished, wm.total)

	for _, line := range wm.recent {
		b.WriteString(recentStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func renderResultLine(report m.FileReport) string {
	return fmt.Sprintf("%-9s %s (%d/%d wrapped)", report.Status, report.Source, report.Wrapped, report.Eligible)
}
