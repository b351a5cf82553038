package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/figport/internal/screens"
	"github.com/spf13/afero"
)

const uploadDoc = `{"document": {"children": [
  {"id": "1:0", "name": "Checkout", "type": "CANVAS", "children": [
    {"id": "1:1", "name": "Checkout Frame", "type": "FRAME"},
    {"id": "1:2", "name": "UI Kit", "type": "FRAME"}
  ]}
]}}`

func newTestExporter(ttl time.Duration) (*Exporter, afero.Fs) {
	fs := afero.NewMemMapFs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExporter(fs, "/exports", ttl, log), fs
}

func TestExporter_Export(t *testing.T) {
	e, fs := newTestExporter(time.Hour)

	job, err := e.Export([]byte(uploadDoc), "Vitrine", screens.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, job.Status)
	}
	if len(job.Index()) != 1 {
		t.Fatalf("expected 1 screen, got %d", len(job.Index()))
	}
	if job.ContentHash != ContentHashHex([]byte(uploadDoc)) {
		t.Errorf("expected content hash of upload, got %q", job.ContentHash)
	}

	for _, name := range []string{"checkout-frame.json", "index.json", "report.md", "report.html"} {
		if ok, _ := afero.Exists(fs, filepath.Join(job.Dir, name)); !ok {
			t.Errorf("expected %s in export dir", name)
		}
	}
	if e.GetJob(job.ID) != job {
		t.Error("expected job to be registered")
	}
	if snap := e.Stats(); snap.Runs != 1 || snap.Screens != 1 {
		t.Errorf("expected 1 run with 1 screen, got %+v", snap)
	}
}

func TestExporter_Failures(t *testing.T) {
	e, _ := newTestExporter(time.Hour)

	job, err := e.Export([]byte(`{"document":`), "", screens.DefaultConfig())
	if err == nil {
		t.Fatal("expected parse error")
	}
	if job.Status != StatusFailed || job.Phase != "parsing" {
		t.Errorf("expected failed/parsing, got %s/%s", job.Status, job.Phase)
	}

	job, err = e.Export([]byte(`{"document": {"children": []}}`), "", screens.DefaultConfig())
	if !errors.Is(err, screens.ErrNoCanvas) {
		t.Fatalf("expected ErrNoCanvas, got %v", err)
	}
	if len(job.Snapshot().Errors) != 1 {
		t.Errorf("expected one recorded error, got %v", job.Snapshot().Errors)
	}

	if snap := e.Stats(); snap.Failures != 2 || snap.Runs != 0 {
		t.Errorf("expected 2 failures and no runs, got %+v", snap)
	}
}

func TestExporter_CleanupRemovesFiles(t *testing.T) {
	e, fs := newTestExporter(10 * time.Millisecond)

	job, err := e.Export([]byte(uploadDoc), "", screens.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	e.Cleanup()

	if e.GetJob(job.ID) != nil {
		t.Error("expected job to be evicted")
	}
	if ok, _ := afero.DirExists(fs, job.Dir); ok {
		t.Error("expected export dir to be removed")
	}
}
