package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "stitch.dev/pkg/stitch/internal/model"
)

// reportFileName is the file written into the reports directory.
const reportFileName = "stitch-report.yaml"

// ReportStore persists weave reports between runs so later commands (and the
// unchanged-file check) can read back what a previous weave did.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) error
	LoadReport(dir m.Path) (m.Report, error)
}

// LocalReportStore is the concrete ReportStore backed by YAML files.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveReport writes the report into dir, creating it when necessary.
func (s *LocalReportStore) SaveReport(dir m.Path, report m.Report) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("failed to create reports directory %s: %w", dir, err)
	}

	content, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	target := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", target, err)
	}

	return nil
}

// LoadReport reads the report stored in dir. A missing report is returned as
// an empty report, not an error.
func (s *LocalReportStore) LoadReport(dir m.Path) (m.Report, error) {
	target := filepath.Join(string(dir), reportFileName)

	content, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return m.Report{}, nil
		}

		return m.Report{}, fmt.Errorf("failed to read report %s: %w", target, err)
	}

	var report m.Report
	if err := yaml.Unmarshal(content, &report); err != nil {
		return m.Report{}, fmt.Errorf("failed to parse report %s: %w", target, err)
	}

	return report, nil
}
