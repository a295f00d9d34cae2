package model

import "time"

// WeaveStatus describes the outcome of weaving one file.
type WeaveStatus string

const (
	// StatusWoven indicates the file was fully marked and injected.
	StatusWoven WeaveStatus = "woven"
	// StatusSkipped indicates the file was not woven because its
	// dependency closure is incomplete.
	StatusSkipped WeaveStatus = "skipped"
	// StatusUnchanged indicates the file was left alone because its hash
	// matches a previous run.
	StatusUnchanged WeaveStatus = "unchanged"
	// StatusFailed indicates marking or injection aborted for the file.
	StatusFailed WeaveStatus = "failed"
)

// FileReport records the weaving outcome for a single source file. There is
// no partial success: a file is either fully woven or not woven at all.
type FileReport struct {
	Source    Path            `yaml:"source"`
	Output    Path            `yaml:"output,omitempty"`
	Hash      string          `yaml:"hash,omitempty"`
	Structure QualifiedName   `yaml:"structure"`
	Status    WeaveStatus     `yaml:"status"`
	Eligible  int             `yaml:"eligible"`
	Wrapped   int             `yaml:"wrapped"`
	Missing   []QualifiedName `yaml:"missing,omitempty"`
	Error     string          `yaml:"error,omitempty"`
}

// Report aggregates the outcome of one weave run.
type Report struct {
	GeneratedAt time.Time    `yaml:"generated_at"`
	Dialect     string       `yaml:"dialect"`
	Files       []FileReport `yaml:"files"`
}

// WeaveStats summarizes a report for display.
type WeaveStats struct {
	Files     int
	Woven     int
	Skipped   int
	Unchanged int
	Failed    int
	Eligible  int
	Wrapped   int
}

// Coverage is the fraction of eligible functions that were wrapped.
func (s WeaveStats) Coverage() float64 {
	if s.Eligible == 0 {
		return 1.0
	}

	return float64(s.Wrapped) / float64(s.Eligible)
}
