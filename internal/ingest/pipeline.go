package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"legisync/internal/archive"
	"legisync/internal/contextutil"
	"legisync/internal/legi"
	"legisync/internal/storage"
)

// DefaultBatchSize is the number of entries decoded together.
const DefaultBatchSize = 256

// Options tunes a Pipeline.
type Options struct {
	// Workers bounds concurrent XML decoding. Defaults to the number of CPUs.
	Workers int
	// BatchSize is the number of entries read before decoding. Defaults to DefaultBatchSize.
	BatchSize int
	// OldPaths receives one superseded path per line after each commit. May be nil.
	OldPaths io.Writer
}

// Pipeline applies LEGI archives to the store, one transaction per archive.
type Pipeline struct {
	store     storage.Store
	upserter  *Upserter
	workers   int
	batchSize int
	oldPaths  io.Writer

	// runMu serializes runs; archives must be applied strictly in order.
	runMu sync.Mutex

	mu   sync.RWMutex
	last *RunReport
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store storage.Store, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Pipeline{
		store:     store,
		upserter:  &Upserter{},
		workers:   opts.Workers,
		batchSize: opts.BatchSize,
		oldPaths:  opts.OldPaths,
	}
}

// LastReport returns the report of the most recent run, or nil.
func (p *Pipeline) LastReport() *RunReport {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Run applies every eligible archive of dir in order. It stops at the first
// archive that fails; archives committed before it stay applied.
// Cancellation is honoured between archives only.
func (p *Pipeline) Run(ctx context.Context, dir string) (*RunReport, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	report := &RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Archives:  []ArchiveReport{},
	}
	logger := contextutil.LoggerFromContext(ctx).With("run_id", report.RunID)
	ctx = contextutil.WithLogger(ctx, logger)

	err := p.run(ctx, dir, report)
	if err != nil {
		report.Error = err.Error()
	}

	p.mu.Lock()
	p.last = report
	p.mu.Unlock()

	return report, err
}

func (p *Pipeline) run(ctx context.Context, dir string, report *RunReport) error {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := archive.List(dir)
	if err != nil {
		return err
	}

	watermark, err := p.store.Watermark(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read watermark: %w", err)
	}
	report.Watermark = watermark
	logger.InfoContext(ctx, "starting ingestion", "dir", dir, "watermark", watermark, "candidates", len(files))

	plan := PlanArchives(files, watermark)
	report.SkippedArchives = plan.Skipped
	report.Unrecognized = plan.Unrecognized
	for _, f := range plan.Unrecognized {
		logger.WarnContext(ctx, "unable to extract date from archive filename", "file", f)
	}
	if plan.Skipped > 0 {
		logger.InfoContext(ctx, "skipped archives not eligible under watermark", "count", plan.Skipped)
	}

	for _, name := range plan.Archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		ar, err := p.applyArchive(ctx, name)
		if err != nil {
			return err
		}
		report.Archives = append(report.Archives, *ar)
		report.Watermark = name.Date
	}

	logger.InfoContext(ctx, "ingestion completed", "applied", len(report.Archives), "watermark", report.Watermark)
	return nil
}

// applyArchive applies one archive in a single transaction: every document
// and derived row change plus the watermark advance commit together, or none
// do. The transaction is not cancelled by ctx once started.
func (p *Pipeline) applyArchive(ctx context.Context, name archive.Name) (*ArchiveReport, error) {
	ctx = context.WithoutCancel(ctx)
	logger := contextutil.LoggerFromContext(ctx).With("archive", name.File)
	ctx = contextutil.WithLogger(ctx, logger)
	start := time.Now()

	logger.InfoContext(ctx, "processing archive", "date", name.Date, "full", name.Full)

	var report *ArchiveReport
	err := p.store.WithTx(ctx, func(ctx context.Context, w storage.Writer) error {
		// Recreated on every attempt so a failed transaction leaves no trace.
		report = &ArchiveReport{Archive: name.File, Date: name.Date, Full: name.Full}
		return p.applyEntries(ctx, w, name, report)
	})

	elapsed := time.Since(start)
	if err != nil {
		archivesTotal.WithLabelValues("failed").Inc()
		logger.ErrorContext(ctx, "archive aborted, watermark unchanged", "error", err)
		return nil, fmt.Errorf("archive %s: %w", name.File, err)
	}

	report.Duration = elapsed.Seconds()
	p.recordMetrics(report, elapsed)
	p.writeOldPaths(ctx, report.OldPaths)

	logger.InfoContext(ctx, "archive committed",
		"watermark", name.Date,
		"entries", report.Entries,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"relocated", report.Relocated,
		"skipped", report.Skipped,
		"duplicates", report.Duplicates,
		"stale", report.Stale,
		"deleted", report.Deleted,
		"old_paths", len(report.OldPaths),
	)
	return report, nil
}

func (p *Pipeline) applyEntries(ctx context.Context, w storage.Writer, name archive.Name, report *ArchiveReport) error {
	logger := contextutil.LoggerFromContext(ctx)

	r, err := archive.Open(name.File)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	var manifest []string
	batch := make([]*archive.Entry, 0, p.batchSize)
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if legi.IsManifest(e.Path) {
			refs := legi.ParseManifest(e.Data)
			manifest = append(manifest, refs...)
			logger.DebugContext(ctx, "found deletion manifest", "path", e.Path, "refs", len(refs))
			continue
		}

		batch = append(batch, e)
		if len(batch) == p.batchSize {
			if err := p.applyBatch(ctx, w, batch, report); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := p.applyBatch(ctx, w, batch, report); err != nil {
		return err
	}

	if len(manifest) > 0 {
		report.ManifestRefs = len(manifest)
		counts, err := applyManifest(ctx, w, manifest)
		if err != nil {
			return err
		}
		report.Counts.merge(counts)
		logger.InfoContext(ctx, "applied deletion manifest", "refs", len(manifest), "deleted", counts.Deleted)
	}

	return w.SetWatermark(ctx, name.Date)
}

// applyBatch decodes entries concurrently, then applies them in entry order.
func (p *Pipeline) applyBatch(ctx context.Context, w storage.Writer, entries []*archive.Entry, report *ArchiveReport) error {
	if len(entries) == 0 {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := decodeBatch(ctx, entries, p.workers)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		decision, counts, err := p.upserter.Apply(ctx, w, doc)
		if err != nil {
			return err
		}
		report.Entries++
		report.Counts.merge(counts)
		report.track(doc.Kind, decision.Outcome)

		switch decision.Outcome {
		case OutcomeRelocated:
			logger.InfoContext(ctx, "document relocated", "id", doc.ID, "old_path", decision.OldPath, "path", doc.Path)
		case OutcomeDuplicate:
			logger.InfoContext(ctx, "duplicate document with same mtime", "id", doc.ID, "path", doc.Path)
		case OutcomeStale:
			logger.DebugContext(ctx, "discarded stale document", "id", doc.ID, "path", doc.Path)
		}
		if decision.OldPath != "" {
			report.OldPaths = append(report.OldPaths, decision.OldPath)
		}
	}
	return nil
}

func (p *Pipeline) recordMetrics(report *ArchiveReport, elapsed time.Duration) {
	archivesTotal.WithLabelValues("committed").Inc()
	archiveDuration.Observe(elapsed.Seconds())
	deletedRowsTotal.Add(float64(report.Deleted))
	for key, n := range report.outcomes {
		documentsTotal.WithLabelValues(key.table, key.outcome).Add(float64(n))
	}
}

// writeOldPaths appends committed relocation records to the old-path log.
func (p *Pipeline) writeOldPaths(ctx context.Context, paths []string) {
	if p.oldPaths == nil || len(paths) == 0 {
		return
	}
	for _, path := range paths {
		if _, err := fmt.Fprintln(p.oldPaths, path); err != nil {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to write old-path log", "error", err)
			return
		}
	}
}
