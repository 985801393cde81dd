package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// touch creates an empty placeholder file; archive contents come from the
// fake reader, only the path needs to exist.
func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertBatch_ConvertsAllArchives(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "A.cbz"))
	b := touch(t, filepath.Join(dir, "B.zip"))

	reader := &fakeReader{archives: map[string]domain.Archive{
		a: testArchive(a),
		b: testArchive(b),
	}}
	writer := &fakeWriter{}
	uc := NewConvertBatch(reader, writer, &fakeConverter{}, testLogger())

	cfg := domain.Config{Target: domain.Avif, Workers: 2}
	sink := &recordingSink{}
	report, err := uc.Execute(context.Background(), []string{a, b}, cfg, sink)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	converted, skipped, failed := report.Totals()
	if converted != 2 || skipped != 0 || failed != 0 {
		t.Fatalf("totals = (%d, %d, %d), want (2, 0, 0)", converted, skipped, failed)
	}
	if len(writer.written) != 2 {
		t.Errorf("wrote %d archives, want 2", len(writer.written))
	}
	if sink.jobs != 2 {
		t.Errorf("announced %d jobs, want 2", sink.jobs)
	}

	found := false
	for _, line := range sink.lines {
		if strings.Contains(line, "Found 2 archives, with a total of 4 images to convert") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing summary line, got %q", sink.lines)
	}
}

func TestConvertBatch_DirectoryScan(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "A.cbz"))
	b := touch(t, filepath.Join(dir, "B.zip"))
	touch(t, filepath.Join(dir, "notes.txt"))
	// converted sibling already on disk, scanned archives skip silently
	c := touch(t, filepath.Join(dir, "C.cbz"))
	touch(t, filepath.Join(dir, "C.avif.cbz"))

	reader := &fakeReader{archives: map[string]domain.Archive{
		a: testArchive(a),
		b: testArchive(b),
		c: testArchive(c),
	}}
	writer := &fakeWriter{}
	uc := NewConvertBatch(reader, writer, &fakeConverter{}, testLogger())

	report, err := uc.Execute(context.Background(), []string{dir}, domain.Config{Target: domain.Avif, Workers: 1}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	converted, skipped, failed := report.Totals()
	if converted != 2 || skipped != 0 || failed != 0 {
		t.Fatalf("totals = (%d, %d, %d), want (2, 0, 0)", converted, skipped, failed)
	}
	// C.avif.cbz itself must not show up as a conversion candidate either
	for path := range writer.written {
		if strings.Contains(path, "C.") {
			t.Errorf("converted already-converted archive: %q", path)
		}
	}
}

func TestConvertBatch_MissingPathIsFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.cbz")
	uc := NewConvertBatch(&fakeReader{}, &fakeWriter{}, &fakeConverter{}, testLogger())

	report, err := uc.Execute(context.Background(), []string{missing}, domain.Config{Target: domain.Avif}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !report.Failed() {
		t.Fatal("report.Failed() = false, want true")
	}
	if len(report.Archives) != 1 || !domain.IsKind(report.Archives[0].Err, domain.KindNotFound) {
		t.Errorf("unexpected report: %+v", report.Archives)
	}
}

func TestConvertBatch_MissingToolsAbortBeforeWork(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "A.cbz"))

	reader := &fakeReader{archives: map[string]domain.Archive{a: testArchive(a)}}
	writer := &fakeWriter{}
	conv := &fakeConverter{missing: []string{"cavif", "magick"}}
	uc := NewConvertBatch(reader, writer, conv, testLogger())

	_, err := uc.Execute(context.Background(), []string{a}, domain.Config{Target: domain.Avif}, ports.NopSink{})
	if !domain.IsKind(err, domain.KindToolMissing) {
		t.Fatalf("err = %v, want tool_missing kind", err)
	}
	if !strings.Contains(err.Error(), "cavif") || !strings.Contains(err.Error(), "magick") {
		t.Errorf("err %q does not list the missing tools", err)
	}
	if len(writer.written) != 0 {
		t.Errorf("archives written despite missing tools")
	}
}

func TestConvertBatch_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "A.cbz"))

	reader := &fakeReader{archives: map[string]domain.Archive{a: testArchive(a)}}
	writer := &fakeWriter{}
	conv := &fakeConverter{}
	uc := NewConvertBatch(reader, writer, conv, testLogger())

	sink := &recordingSink{}
	cfg := domain.Config{Target: domain.Avif, DryRun: true}
	report, err := uc.Execute(context.Background(), []string{a}, cfg, sink)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(report.Archives) != 0 {
		t.Errorf("dry run produced results: %+v", report.Archives)
	}
	if len(writer.written) != 0 || len(conv.calls) != 0 {
		t.Errorf("dry run touched writer or converter")
	}

	found := false
	for _, line := range sink.lines {
		if strings.Contains(line, "would convert") && strings.Contains(line, "A.cbz") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing dry run line, got %q", sink.lines)
	}
}

func TestConvertBatch_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))

	uc := NewConvertBatch(&fakeReader{}, &fakeWriter{}, &fakeConverter{}, testLogger())
	sink := &recordingSink{}
	report, err := uc.Execute(context.Background(), []string{dir}, domain.Config{Target: domain.Avif}, sink)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(report.Archives) != 0 {
		t.Errorf("unexpected results: %+v", report.Archives)
	}

	found := false
	for _, line := range sink.lines {
		if line == "Nothing to do" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing 'Nothing to do', got %q", sink.lines)
	}
}

func TestConvertBatch_ExplicitSkipIsReported(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "A.avif.cbz"))

	uc := NewConvertBatch(&fakeReader{}, &fakeWriter{}, &fakeConverter{}, testLogger())
	report, err := uc.Execute(context.Background(), []string{a}, domain.Config{Target: domain.Avif}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(report.Archives) != 1 || report.Archives[0].Status != domain.ArchiveSkipped {
		t.Fatalf("unexpected report: %+v", report.Archives)
	}
}
