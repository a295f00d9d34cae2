package domain

import (
	m "stitch.dev/pkg/stitch/internal/model"
	pkg "stitch.dev/pkg/stitch/pkg"
)

// statsFromSpill folds the per-file reports accumulated during a run into the
// summary stats shown after weaving.
func statsFromSpill(reports pkg.FileSpill[m.FileReport]) (m.WeaveStats, error) {
	var stats m.WeaveStats

	err := reports.Range(func(_ uint64, report m.FileReport) error {
		stats.Files++
		stats.Eligible += report.Eligible
		stats.Wrapped += report.Wrapped

		switch report.Status {
		case m.StatusWoven:
			stats.Woven++
		case m.StatusSkipped:
			stats.Skipped++
		case m.StatusUnchanged:
			stats.Unchanged++
		case m.StatusFailed:
			stats.Failed++
		}

		return nil
	})
	if err != nil {
		return m.WeaveStats{}, err
	}

	return stats, nil
}

// statsFromReport computes the summary stats for an already assembled report.
func statsFromReport(report m.Report) m.WeaveStats {
	var stats m.WeaveStats

	for _, file := range report.Files {
		stats.Files++
		stats.Eligible += file.Eligible
		stats.Wrapped += file.Wrapped

		switch file.Status {
		case m.StatusWoven:
			stats.Woven++
		case m.StatusSkipped:
			stats.Skipped++
		case m.StatusUnchanged:
			stats.Unchanged++
		case m.StatusFailed:
			stats.Failed++
		}
	}

	return stats
}
