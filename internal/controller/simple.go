package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "stitch.dev/pkg/stitch/internal/model"
)

var (
	wovenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayStructures prints the structure listing as a table.
func (s *SimpleUI) DisplayStructures(ctx context.Context, rows []StructureRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := make([]StructureRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Structure < sorted[j].Structure })

	s.printf("\n%s", renderStructureTable(sorted))

	return nil
}

func renderStructureTable(rows []StructureRow) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Structure", "Source", "Eligible", "Closure"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	eligible := 0

	for _, row := range rows {
		closure := "complete"
		if len(row.Missing) > 0 {
			closure = "missing " + joinNames(row.Missing)
		}

		table.Append([]string{
			string(row.Structure),
			string(row.Source),
			fmt.Sprintf("%d", row.Eligible),
			closure,
		})

		eligible += row.Eligible
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(rows)), "",
		fmt.Sprintf("%d", eligible), "",
	})

	table.Render()

	return tableBuffer.String()
}

func joinNames(names []m.QualifiedName) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, string(name))
	}

	return strings.Join(parts, ", ")
}

// DisplayWeaveStarting announces that a file is being woven.
func (s *SimpleUI) DisplayWeaveStarting(ctx context.Context, source m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Weaving %s\n", source)
}

// DisplayFileResult prints the outcome for one file.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, report m.FileReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s (%d/%d wrapped)\n", statusLabel(report.Status), report.Source, report.Wrapped, report.Eligible)

	if report.Status == m.StatusSkipped && len(report.Missing) > 0 {
		s.printf("  missing: %s\n", joinNames(report.Missing))
	}

	if report.Error != "" {
		s.printf("  %s\n", report.Error)
	}
}

// DisplaySummary prints the run summary table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, stats m.WeaveStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Files", "Woven", "Skipped", "Unchanged", "Failed", "Wrapped"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.Append([]string{
		fmt.Sprintf("%d", stats.Files),
		fmt.Sprintf("%d", stats.Woven),
		fmt.Sprintf("%d", stats.Skipped),
		fmt.Sprintf("%d", stats.Unchanged),
		fmt.Sprintf("%d", stats.Failed),
		fmt.Sprintf("%d/%d", stats.Wrapped, stats.Eligible),
	})
	table.Render()

	s.printf("\n%s", tableBuffer.String())
	s.printf("Contract coverage: %.2f%%\n", stats.Coverage()*100)

	return nil
}

// DisplayDiff prints a unified diff between the original and woven source.
func (s *SimpleUI) DisplayDiff(ctx context.Context, source m.Path, original, woven string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := renderUnifiedDiff(source, original, woven)
	if err != nil {
		return err
	}

	s.printf("%s\n", diff)

	return nil
}

func renderUnifiedDiff(source m.Path, original, woven string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(woven),
		FromFile: string(source),
		ToFile:   string(source) + " (woven)",
		Context:  3,
	})
}

func statusLabel(status m.WeaveStatus) string {
	switch status {
	case m.StatusWoven:
		return wovenStyle.Render("woven")
	case m.StatusSkipped:
		return skippedStyle.Render("skipped")
	case m.StatusUnchanged:
		return unchangedStyle.Render("unchanged")
	case m.StatusFailed:
		return failedStyle.Render("failed")
	}

	return string(status)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
