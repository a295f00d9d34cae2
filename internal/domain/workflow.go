package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"stitch.dev/pkg/stitch/internal/adapter"
	"stitch.dev/pkg/stitch/internal/controller"
	m "stitch.dev/pkg/stitch/internal/model"
	pkg "stitch.dev/pkg/stitch/pkg"
)

// weaveChunkSize controls how source files are sliced into chunks before they
// reach the injection pass, mirroring the buffered stream delivery the weaver
// is designed for.
const weaveChunkSize = 64 * 1024

// WeaveArgs contains the arguments for a weave run.
type WeaveArgs struct {
	Paths    []m.Path
	Exclude  []string
	Output   m.Path
	Threads  int
	UseCache bool
}

// ListArgs contains the arguments for listing structures.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
}

// ViewArgs contains the arguments for viewing a previous run.
type ViewArgs struct {
	Output m.Path
	Diff   bool
}

// Workflow drives discovery, hierarchy gating, weaving and reporting.
type Workflow interface {
	WeaveAll(ctx context.Context, args WeaveArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.DescriptorStore
	adapter.ReportStore
	controller.UI
	Weaver

	dialect m.Dialect
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	descriptorStore adapter.DescriptorStore,
	reportStore adapter.ReportStore,
	ui controller.UI,
	weaver Weaver,
	dialect m.Dialect,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		DescriptorStore: descriptorStore,
		ReportStore:     reportStore,
		UI:              ui,
		Weaver:          weaver,
		dialect:         dialect,
	}
}

// discovered pairs a source file with its loaded structure descriptor.
type discovered struct {
	source    m.Source
	structure *m.StructureDescriptor
}

// WeaveAll weaves every discovered source whose dependency closure is
// complete and persists a report of the run. A failing file never aborts the
// batch; its failure is recorded and the rest proceeds.
func (w *workflow) WeaveAll(ctx context.Context, args WeaveArgs) error {
	items, hierarchy, err := w.discover(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	if err := w.Start(ctx, controller.WithWeaveMode(len(items))); err != nil {
		slog.Error("failed to start workflow UI", "error", err)
		return err
	}

	previous := w.previousHashes(args)

	spill, err := pkg.NewFileSpill[m.FileReport]()
	if err != nil {
		w.Close(ctx)
		return fmt.Errorf("create report spill: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threadLimit(args.Threads))

	for _, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			w.DisplayWeaveStarting(gctx, item.source.Origin.ShortPath)
			report := w.weaveOne(gctx, item, hierarchy, previous, args.Output)

			if err := spill.Append(report); err != nil {
				return err
			}

			w.DisplayFileResult(gctx, report)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		w.Close(ctx)
		return fmt.Errorf("weave: %w", err)
	}

	stats, err := statsFromSpill(spill)
	if err != nil {
		w.Close(ctx)
		return fmt.Errorf("collect stats: %w", err)
	}

	report := m.Report{GeneratedAt: time.Now(), Dialect: w.dialect.Name}

	if err := spill.Range(func(_ uint64, file m.FileReport) error {
		report.Files = append(report.Files, file)
		return nil
	}); err != nil {
		w.Close(ctx)
		return fmt.Errorf("collect report: %w", err)
	}

	if err := spill.Remove(); err != nil {
		slog.Warn("failed to remove report spill", "error", err)
	}

	if err := w.SaveReport(args.Output, report); err != nil {
		w.Close(ctx)
		return fmt.Errorf("save report: %w", err)
	}

	w.Close(ctx)
	w.Wait(ctx)

	return w.DisplaySummary(ctx, stats)
}

// weaveOne produces the FileReport for a single source. All failure modes end
// up in the report; nothing is emitted for a file that did not weave fully.
func (w *workflow) weaveOne(ctx context.Context, item discovered, hierarchy *Hierarchy, previous map[m.Path]m.FileReport, output m.Path) m.FileReport {
	report := m.FileReport{
		Source:    item.source.Origin.ShortPath,
		Hash:      item.source.Origin.Hash,
		Structure: item.structure.QualifiedName,
		Eligible:  EligibleFunctions(item.structure),
	}

	if missing := hierarchy.MissingFor(item.structure.QualifiedName); len(missing) > 0 {
		report.Status = m.StatusSkipped
		report.Missing = missing

		return report
	}

	if prior, ok := previous[report.Source]; ok && prior.Hash == report.Hash {
		report.Status = m.StatusUnchanged
		report.Output = prior.Output
		report.Wrapped = prior.Wrapped

		return report
	}

	content, err := w.ReadFile(item.source.Origin.FullPath)
	if err != nil {
		report.Status = m.StatusFailed
		report.Error = err.Error()

		return report
	}

	woven, wrapped, err := w.Weave(ctx, item.source, item.structure, chunkText(string(content), weaveChunkSize))
	if err != nil {
		slog.Error("weave failed", "source", item.source.Origin.FullPath, "error", err)
		report.Status = m.StatusFailed
		report.Error = err.Error()

		return report
	}

	target := w.outputPath(output, item.source)
	if err := w.WriteFile(target, []byte(woven), 0o600); err != nil {
		report.Status = m.StatusFailed
		report.Error = err.Error()

		return report
	}

	report.Status = m.StatusWoven
	report.Output = target
	report.Wrapped = wrapped

	return report
}

// List displays the discovered structures, their eligible function counts and
// the state of their dependency closures without writing any output.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	items, hierarchy, err := w.discover(ctx, args.Paths, args.Exclude)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		return err
	}

	rows := make([]controller.StructureRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, controller.StructureRow{
			Structure: item.structure.QualifiedName,
			Source:    item.source.Origin.ShortPath,
			Eligible:  EligibleFunctions(item.structure),
			Missing:   hierarchy.MissingFor(item.structure.QualifiedName),
		})
	}

	if err := w.DisplayStructures(ctx, rows); err != nil {
		w.Close(ctx)
		return err
	}

	w.Close(ctx)

	return nil
}

// View replays the stored report of the last run, optionally with a unified
// diff per woven file.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(args.Output)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	for _, file := range report.Files {
		w.DisplayFileResult(ctx, file)

		if !args.Diff || file.Status != m.StatusWoven {
			continue
		}

		original, err := w.ReadFile(file.Source)
		if err != nil {
			slog.Warn("failed to read original source", "source", file.Source, "error", err)
			continue
		}

		woven, err := w.ReadFile(file.Output)
		if err != nil {
			slog.Warn("failed to read woven output", "output", file.Output, "error", err)
			continue
		}

		if err := w.DisplayDiff(ctx, file.Source, string(original), string(woven)); err != nil {
			return err
		}
	}

	return w.DisplaySummary(ctx, statsFromReport(report))
}

// discover walks the requested paths, pairs sources with their descriptor
// sidecars and fills the dependency hierarchy.
func (w *workflow) discover(ctx context.Context, paths []m.Path, exclude []string) ([]discovered, *Hierarchy, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, nil, err
	}

	hierarchy := NewHierarchy()

	var items []discovered

	for _, path := range normalizePaths(paths) {
		root, recursive := splitRecursive(path)

		err := w.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if info.IsDir() || filepath.Ext(path) != w.dialect.Extension || matchesAny(excludes, path) {
				return nil
			}

			item, ok, err := w.inspect(m.Path(path), info)
			if err != nil {
				return err
			}

			if !ok {
				return nil
			}

			hierarchy.Insert(item.structure)
			items = append(items, item)

			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return items, hierarchy, nil
}

// inspect builds the discovered entry for one source file. Sources without a
// descriptor sidecar are not weaving candidates and report ok=false.
func (w *workflow) inspect(path m.Path, info os.FileInfo) (discovered, bool, error) {
	sidecarPath, err := w.DetectSidecarFile(path)
	if err != nil {
		return discovered{}, false, err
	}

	if sidecarPath == "" {
		return discovered{}, false, nil
	}

	structure, err := w.Load(sidecarPath)
	if err != nil {
		return discovered{}, false, err
	}

	hash, err := w.HashFile(path)
	if err != nil {
		return discovered{}, false, err
	}

	full := path
	if abs, absErr := filepath.Abs(string(path)); absErr == nil {
		full = m.Path(abs)
	}

	return discovered{
		source: m.Source{
			Origin: &m.File{
				ShortPath: path,
				FullPath:  full,
				Hash:      hash,
				ModTime:   info.ModTime(),
			},
			Sidecar: &m.File{ShortPath: sidecarPath},
		},
		structure: structure,
	}, true, nil
}

// previousHashes indexes the hashes of the last report's woven files so
// unchanged sources can be left alone.
func (w *workflow) previousHashes(args WeaveArgs) map[m.Path]m.FileReport {
	if !args.UseCache {
		return nil
	}

	report, err := w.LoadReport(args.Output)
	if err != nil {
		slog.Warn("failed to load previous report, caching disabled for this run", "error", err)
		return nil
	}

	previous := make(map[m.Path]m.FileReport, len(report.Files))

	for _, file := range report.Files {
		if file.Status == m.StatusWoven || file.Status == m.StatusUnchanged {
			previous[file.Source] = file
		}
	}

	return previous
}

func (w *workflow) outputPath(output m.Path, source m.Source) m.Path {
	rel, err := w.RelPath(".", source.Origin.ShortPath)
	if err != nil || strings.HasPrefix(string(rel), "..") {
		rel = m.Path(filepath.Base(string(source.Origin.ShortPath)))
	}

	return w.JoinPath(string(output), string(rel))
}

func normalizePaths(paths []m.Path) []m.Path {
	if len(paths) == 0 {
		return []m.Path{"./..."}
	}

	return paths
}

// splitRecursive interprets Go-style "..." path patterns.
func splitRecursive(path m.Path) (m.Path, bool) {
	value := string(path)

	switch {
	case value == "...":
		return ".", true
	case strings.HasSuffix(value, "/..."):
		return m.Path(strings.TrimSuffix(value, "/...")), true
	}

	return path, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func matchesAny(excludes []*regexp.Regexp, path string) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// chunkText slices text into size-bounded chunks, preserving order and
// content exactly.
func chunkText(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	chunks := make([]string, 0, len(text)/size+1)

	for start := 0; start < len(text); start += size {
		end := start + size
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, text[start:end])
	}

	return chunks
}

func threadLimit(threads int) int {
	if threads <= 0 {
		return 1
	}

	return threads
}
