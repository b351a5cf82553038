package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/figport/internal/figma"
	"github.com/dgallion1/figport/internal/report"
	"github.com/dgallion1/figport/internal/screens"
	"github.com/spf13/afero"
)

// Exporter runs screen exports for uploaded documents and keeps their results
// on disk until the job expires.
type Exporter struct {
	fs      afero.Fs
	baseDir string
	jobs    *JobStore
	stats   *ExportStats
	log     *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExporter creates an exporter writing under baseDir.
func NewExporter(fs afero.Fs, baseDir string, ttl time.Duration, log *slog.Logger) *Exporter {
	return &Exporter{
		fs:      fs,
		baseDir: filepath.Clean(baseDir),
		jobs:    NewJobStore(ttl),
		stats:   NewExportStats(time.Hour),
		log:     log,
	}
}

// Start launches the expired-job cleanup loop.
func (e *Exporter) Start(ctx context.Context, every time.Duration) {
	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				e.Cleanup()
			}
		}
	}()
}

// Stop ends the cleanup loop.
func (e *Exporter) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// Cleanup drops expired jobs and their output directories.
func (e *Exporter) Cleanup() {
	for _, job := range e.jobs.Cleanup() {
		if err := e.fs.RemoveAll(job.Dir); err != nil {
			e.log.Warn("remove expired export", "export_id", job.ID, "error", err)
			continue
		}
		e.log.Info("expired export removed", "export_id", job.ID)
	}
}

// Export parses data and writes its screens, index and report into a new job
// directory. The job is returned even when the export fails.
func (e *Exporter) Export(data []byte, title string, cfg screens.Config) (*Job, error) {
	start := time.Now()
	job := NewJob(e.baseDir)
	job.ContentHash = ContentHashHex(data)
	e.jobs.Put(job)
	log := e.log.With("export_id", job.ID)

	fail := func(phase string, err error) (*Job, error) {
		log.Error("export failed", "phase", phase, "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, phase)
		e.stats.RecordFailure()
		return job, err
	}

	job.SetStatus(StatusParsing, "parsing")
	doc, err := figma.ParseBytes(data)
	if err != nil {
		return fail("parsing", err)
	}

	job.SetStatus(StatusExporting, "exporting")
	index, err := screens.Export(e.fs, doc, job.Dir, cfg, io.Discard, log)
	if err != nil {
		return fail("exporting", err)
	}
	job.SetIndex(index)

	if title == "" {
		title = "Export " + job.ID
	}
	if err := report.Write(e.fs, job.Dir, title, index); err != nil {
		return fail("report", fmt.Errorf("write report: %w", err))
	}

	job.SetStatus(StatusCompleted, "done")
	e.stats.Record(time.Since(start), len(index))
	log.Info("export complete", "screens", len(index), "duration_ms", time.Since(start).Milliseconds())
	return job, nil
}

// GetJob returns a job by ID.
func (e *Exporter) GetJob(id string) *Job {
	return e.jobs.Get(id)
}

// Stats returns recent export statistics.
func (e *Exporter) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// FS is the filesystem exports are written to.
func (e *Exporter) FS() afero.Fs {
	return e.fs
}
