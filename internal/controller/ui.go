// Package controller provides output adapters for displaying weaving results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "stitch.dev/pkg/stitch/internal/model"
)

// StructureRow is one row of the structure listing.
type StructureRow struct {
	Structure m.QualifiedName
	Source    m.Path
	Eligible  int
	Missing   []m.QualifiedName
}

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeWeave
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode  StartMode
	total int
}

// WithListMode sets the UI to structure-listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithWeaveMode sets the UI to weaving mode with the expected file count.
func WithWeaveMode(totalFiles int) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeWeave
		c.total = totalFiles
	}
}

// UI defines the interface for displaying weave progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context)
	DisplayStructures(ctx context.Context, rows []StructureRow) error
	DisplayWeaveStarting(ctx context.Context, source m.Path)
	DisplayFileResult(ctx context.Context, report m.FileReport)
	DisplaySummary(ctx context.Context, stats m.WeaveStats) error
	DisplayDiff(ctx context.Context, source m.Path, original, woven string) error
}

// NewUI picks the interactive TUI on a terminal and the simple printer
// otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(output io.Writer) bool {
	f, ok := output.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
