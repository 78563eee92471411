// Package pipeline orchestrates item discovery, per-item repair, and
// batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"snapfix/internal/archive"
	"snapfix/internal/compositor"
	"snapfix/internal/config"
	"snapfix/internal/display"
	"snapfix/internal/geometry"
	"snapfix/internal/logging"
	"snapfix/internal/naming"
	"snapfix/internal/pair"
	"snapfix/internal/timestamp"
)

// overlayConverter is the optional engine capability for normalizing a
// real WebP overlay into PNG. Engines without it skip the conversion and
// feed the overlay through as-is.
type overlayConverter interface {
	ConvertOverlayToPNG(ctx context.Context, src, dst string) error
}

// Runner drives the whole batch: one item at a time, each owning its own
// scratch directory, with every failure contained at the item boundary.
type Runner struct {
	cfg    *config.Config
	log    *logging.Logger
	engine compositor.Engine

	// ShowProgress enables the live progress bar; off for tests and
	// non-interactive runs.
	ShowProgress bool

	scratchRoot string
	now         func() time.Time
}

// New builds a Runner around a configured engine.
func New(cfg *config.Config, log *logging.Logger, engine compositor.Engine) *Runner {
	return &Runner{
		cfg:         cfg,
		log:         log,
		engine:      engine,
		scratchRoot: os.TempDir(),
		now:         time.Now,
	}
}

// Run is the top-level batch entry point. It discovers items, processes
// each sequentially, writes the skip report, and returns the per-item
// records in discovery order plus aggregate stats. Failures before the
// first item (unreadable input folder, output folder creation) are the
// caller's to handle; everything after that degrades to a per-item skip.
func (r *Runner) Run(ctx context.Context) ([]OutcomeRecord, RunStats, error) {
	var stats RunStats

	items, err := Discover(r.cfg.InputDir)
	if err != nil {
		return nil, stats, fmt.Errorf("scanning input folder: %w", err)
	}
	stats.Total = len(items)
	r.log.Debug(r.cfg.Verbose, "%s: %d archives + loose files", StateDiscovered, len(items))
	if len(items) == 0 {
		r.log.Warn("No archives or loose media files found in %s", r.cfg.InputDir)
		return nil, stats, nil
	}

	r.log.Info("Found %s", display.FormatCount(len(items), "item"))
	r.log.Info("Output folder: %s", r.cfg.OutputDir())
	r.log.Info("Fit mode: %s, per-item timeout: %s", r.cfg.FitMode, r.cfg.Timeout())
	if r.cfg.DryRun {
		r.log.Warn("Dry run: no files will be written")
	}
	fmt.Println()

	if !r.cfg.DryRun {
		if err := os.MkdirAll(r.cfg.OutputDir(), 0o755); err != nil {
			return nil, stats, fmt.Errorf("creating output folder: %w", err)
		}
	}

	var bar *progressbar.ProgressBar
	if r.ShowProgress {
		bar = progressbar.NewOptions(len(items),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("repairing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	records := make([]OutcomeRecord, 0, len(items))
	for i, item := range items {
		stats.Current = i + 1

		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			break
		}

		start := time.Now()
		rec := r.processItem(ctx, item)
		rec.Elapsed = time.Since(start)
		records = append(records, rec)

		r.tally(&stats, item, rec)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	r.writeReport(records)
	r.logSummary(records, &stats)
	return records, stats, nil
}

func (r *Runner) tally(stats *RunStats, item InputItem, rec OutcomeRecord) {
	if rec.Completed() {
		stats.Completed++
		if rec.Degraded {
			stats.Degraded++
		}
		if fi, err := os.Stat(item.Path); err == nil {
			stats.TotalInputBytes += fi.Size()
		}
		if fi, err := os.Stat(rec.Output); err == nil {
			stats.TotalOutputBytes += fi.Size()
		}
	} else {
		stats.Skipped++
	}
}

// processItem handles one unit of work and converts every failure into a
// Skipped record. Nothing in here may abort the batch.
func (r *Runner) processItem(ctx context.Context, item InputItem) OutcomeRecord {
	r.log.Info("Processing: %s", item.Name)

	var rec OutcomeRecord
	if item.Kind == ItemArchive {
		rec = r.processArchive(ctx, item)
	} else {
		rec = r.processLoose(ctx, item)
	}

	if rec.Completed() {
		label := rec.Strategy
		if rec.Degraded {
			label += ", timestamp unresolved"
		}
		r.log.Success("  %s (%s)", filepath.Base(rec.Output), label)
	} else {
		r.log.Warn("  Skipped: %s", rec.Reason)
	}
	return rec
}

func skip(item InputItem, reason string) OutcomeRecord {
	return OutcomeRecord{Source: item.Name, State: StateSkipped, Reason: reason}
}

// processArchive runs the full extract, pair, probe, plan, merge sequence
// for one zip bundle.
func (r *Runner) processArchive(ctx context.Context, item InputItem) OutcomeRecord {
	scratch := filepath.Join(r.scratchRoot, "snapfix-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return skip(item, fmt.Sprintf("scratch directory: %v", err))
	}
	defer os.RemoveAll(scratch)

	r.log.Debug(r.cfg.Verbose, "  %s: %s", StateExtracting, item.Name)
	entries, err := archive.Extract(item.Path, scratch)
	if err != nil {
		return skip(item, fmt.Sprintf("extraction failure: %v", err))
	}
	if len(entries) == 0 {
		return skip(item, "no media entries in archive")
	}

	r.log.Debug(r.cfg.Verbose, "  %s: %d media entries", StatePairing, len(entries))
	pr, err := pair.Resolve(entries)
	if err != nil {
		return skip(item, err.Error())
	}

	if pr.PrimaryKind == pair.KindUnknown {
		return skip(item, "unsupported primary format")
	}

	info, err := r.engine.Probe(ctx, pr.Primary.Path)
	if err != nil {
		return skip(item, fmt.Sprintf("unreadable primary %s: %v", pr.Primary.Name, err))
	}
	if !info.HasDimensions() {
		return skip(item, "primary has invalid dimensions")
	}

	sources := timestamp.Sources{Embedded: info.CreationTime}
	sources.Archive = pr.Primary.Modified
	if pr.Overlay != nil {
		sources.Archive = timestamp.Earliest(sources.Archive, pr.Overlay.Modified)
	}
	if fi, err := os.Stat(item.Path); err == nil {
		sources.Filesystem = fi.ModTime()
	}
	ts := timestamp.Resolve(sources, r.now)

	overlayPath, plan, note := r.prepareOverlay(ctx, scratch, info.Width, info.Height, pr.Overlay)

	outPath := naming.OutputPath(r.cfg.OutputDir(), item.Path, pr.Primary.Name)
	job := compositor.Job{
		Strategy:     chooseStrategy(pr.PrimaryKind, overlayPath != ""),
		PrimaryPath:  pr.Primary.Path,
		OverlayPath:  overlayPath,
		OutputPath:   outPath,
		Geometry:     plan,
		CreationTime: ts.Time,
	}

	return r.execute(ctx, item, job, ts, note)
}

// prepareOverlay probes and, when needed, converts the overlay. An
// unusable overlay is not fatal: the item falls back to primary-only and
// the reason is surfaced as a note.
func (r *Runner) prepareOverlay(ctx context.Context, scratch string, pw, ph int, overlay *archive.Entry) (path string, plan *geometry.Plan, note string) {
	if overlay == nil {
		return "", nil, ""
	}

	info, err := r.engine.Probe(ctx, overlay.Path)
	if err != nil || !info.HasDimensions() {
		return "", nil, "overlay unusable, merged primary only"
	}

	path = overlay.Path
	// Signature wins over extension: a PNG renamed to .webp needs no
	// conversion, a real WebP does.
	if pair.SniffFile(overlay.Path) == pair.FormatWebP {
		conv, ok := r.engine.(overlayConverter)
		if !ok {
			return "", nil, "overlay unusable, merged primary only"
		}
		converted := filepath.Join(scratch, "overlay_converted.png")
		if err := conv.ConvertOverlayToPNG(ctx, overlay.Path, converted); err != nil {
			return "", nil, "overlay unusable, merged primary only"
		}
		path = converted
	}

	plan, err = geometry.BuildPlan(r.cfg, pw, ph, info.Width, info.Height)
	if err != nil {
		return "", nil, "overlay unusable, merged primary only"
	}
	return path, plan, ""
}

// processLoose handles a standalone top-level media file: no extraction,
// no pairing, primary-only merge.
func (r *Runner) processLoose(ctx context.Context, item InputItem) OutcomeRecord {
	kind := looseKind(item.Name)
	if kind == pair.KindUnknown {
		return skip(item, "unsupported primary format")
	}

	var sources timestamp.Sources
	if info, err := r.engine.Probe(ctx, item.Path); err == nil {
		sources.Embedded = info.CreationTime
	}
	if fi, err := os.Stat(item.Path); err == nil {
		sources.Filesystem = fi.ModTime()
	}
	ts := timestamp.Resolve(sources, r.now)

	job := compositor.Job{
		Strategy:     chooseStrategy(kind, false),
		PrimaryPath:  item.Path,
		OutputPath:   naming.LoosePath(r.cfg.OutputDir(), item.Path),
		CreationTime: ts.Time,
	}
	return r.execute(ctx, item, job, ts, "")
}

// execute runs the merge and converts the outcome into the item's record.
func (r *Runner) execute(ctx context.Context, item InputItem, job compositor.Job, ts timestamp.Resolved, note string) OutcomeRecord {
	rec := OutcomeRecord{
		Source:          item.Name,
		State:           StateCompleted,
		Output:          job.OutputPath,
		Strategy:        job.Strategy.String(),
		TimestampSource: ts.Source,
		Degraded:        ts.Degraded,
		Note:            note,
	}

	if r.cfg.DryRun {
		r.log.Debug(r.cfg.Verbose, "  [DRY] Would write %s (%s)", filepath.Base(job.OutputPath), job.Strategy)
		return rec
	}

	r.log.Debug(r.cfg.Verbose, "  %s: %s -> %s", StateCompositing, job.Strategy, filepath.Base(job.OutputPath))
	out := r.engine.Composite(ctx, job)
	if out.TimedOut {
		return skip(item, fmt.Sprintf("timeout > %s", r.cfg.Timeout()))
	}
	if out.Err != nil {
		return skip(item, mergeFailureReason(out))
	}
	return rec
}

func mergeFailureReason(out compositor.Outcome) string {
	reason := fmt.Sprintf("compositor failed: %v", out.Err)
	if line := lastStderrLine(out.Stderr); line != "" {
		reason += " (" + line + ")"
	}
	return reason
}

func lastStderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// chooseStrategy maps primary kind and overlay presence to the merge
// strategy.
func chooseStrategy(kind pair.Kind, hasOverlay bool) compositor.Strategy {
	if kind == pair.KindMotion {
		if hasOverlay {
			return compositor.StrategyVideoOverlay
		}
		return compositor.StrategyPassthroughVideo
	}
	if hasOverlay {
		return compositor.StrategyImageOverlay
	}
	return compositor.StrategyCopy
}

func looseKind(name string) pair.Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4":
		return pair.KindMotion
	case ".jpg", ".jpeg", ".png", ".webp":
		return pair.KindStill
	default:
		return pair.KindUnknown
	}
}

func (r *Runner) writeReport(records []OutcomeRecord) {
	if r.cfg.DryRun || !NeedsReport(records) {
		return
	}
	path := r.cfg.ReportPath()
	if err := WriteReport(path, records); err != nil {
		r.log.Error("Cannot write skip report: %v", err)
		return
	}
	r.log.Info("Skip report: %s", path)
}

func (r *Runner) logSummary(records []OutcomeRecord, stats *RunStats) {
	fmt.Println()
	if len(records) > 0 {
		rows := make([]display.SummaryRow, 0, len(records))
		for _, rec := range records {
			row := display.SummaryRow{
				Source:  rec.Source,
				Result:  rec.State.String(),
				Elapsed: display.FormatDuration(rec.Elapsed),
			}
			switch {
			case rec.Completed():
				row.Detail = rec.Strategy
				if rec.Note != "" {
					row.Detail += ", " + rec.Note
				}
				if rec.Degraded {
					row.Detail += ", timestamp unresolved"
				}
			default:
				row.Detail = rec.Reason
			}
			rows = append(rows, row)
		}
		fmt.Println(display.RenderSummary(rows))
	}

	r.log.Info("Done: %d completed, %d skipped of %d", stats.Completed, stats.Skipped, stats.Total)
	if stats.Degraded > 0 {
		r.log.Warn("%s fell back to processing time for the timestamp", display.FormatCount(stats.Degraded, "item"))
	}
	if !r.cfg.DryRun && stats.TotalOutputBytes > 0 {
		r.log.Info("Written: %s from %s of input", display.FormatBytes(stats.TotalOutputBytes), display.FormatBytes(stats.TotalInputBytes))
	}
}
