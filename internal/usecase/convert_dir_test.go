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

// writeTree lays out files below root, creating directories as needed.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestConvertDir_MirrorsAndConverts(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "Comics")
	writeTree(t, root, map[string]string{
		"vol1/001.jpg": "jpg-1",
		"vol1/002.png": "png-2",
		"cover.webp":   "webp-c",
		"info.txt":     "notes",
	})

	uc := NewConvertDir(&fakeConverter{}, testLogger())
	cfg := domain.Config{Target: domain.Avif, Workers: 2}
	report, err := uc.Execute(context.Background(), []string{root}, cfg, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	converted, _, failed := report.Totals()
	if converted != 1 || failed != 0 {
		t.Fatalf("totals = (%d converted, %d failed), report %+v", converted, failed, report.Archives)
	}

	mirror := root + "-avif"
	for _, rel := range []string{"vol1/001.avif", "vol1/002.avif", "cover.avif", "info.txt"} {
		if _, err := os.Stat(filepath.Join(mirror, rel)); err != nil {
			t.Errorf("missing mirror file %q: %v", rel, err)
		}
	}
	for _, rel := range []string{"vol1/001.jpg", "vol1/002.png", "cover.webp"} {
		if _, err := os.Stat(filepath.Join(mirror, rel)); err == nil {
			t.Errorf("original image %q still present in mirror", rel)
		}
	}

	data, err := os.ReadFile(filepath.Join(mirror, "vol1", "001.avif"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "converted:jpg-1" {
		t.Errorf("converted data = %q", data)
	}

	// original tree untouched
	data, err = os.ReadFile(filepath.Join(root, "vol1", "001.jpg"))
	if err != nil || string(data) != "jpg-1" {
		t.Errorf("original file changed: %q, %v", data, err)
	}
}

func TestConvertDir_FailedImageKeepsHardlink(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "Comics")
	writeTree(t, root, map[string]string{
		"001.jpg": "jpg-1",
		"002.jpg": "jpg-2",
	})

	conv := &fakeConverter{failNames: map[string]bool{"002.jpg": true}}
	uc := NewConvertDir(conv, testLogger())
	report, err := uc.Execute(context.Background(), []string{root}, domain.Config{Target: domain.Avif, Workers: 1}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Failed() {
		t.Fatalf("entry failure failed the whole directory: %+v", report.Archives)
	}

	mirror := root + "-avif"
	if _, err := os.Stat(filepath.Join(mirror, "002.jpg")); err != nil {
		t.Errorf("failed image removed from mirror: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mirror, "001.avif")); err != nil {
		t.Errorf("converted sibling missing: %v", err)
	}

	_, _, failed := report.EntryTotals()
	if failed != 1 {
		t.Errorf("entry failures = %d, want 1", failed)
	}
}

func TestConvertDir_SkipsExistingMirror(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "Comics")
	writeTree(t, root, map[string]string{"001.jpg": "jpg-1"})
	if err := os.MkdirAll(root+"-avif", 0o755); err != nil {
		t.Fatal(err)
	}

	uc := NewConvertDir(&fakeConverter{}, testLogger())
	report, err := uc.Execute(context.Background(), []string{root}, domain.Config{Target: domain.Avif}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(report.Archives) != 1 || report.Archives[0].Status != domain.ArchiveSkipped {
		t.Fatalf("unexpected report: %+v", report.Archives)
	}
}

func TestConvertDir_SkipsMirrorDirectoryItself(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "Comics-avif")
	writeTree(t, root, map[string]string{"001.jpg": "jpg-1"})

	uc := NewConvertDir(&fakeConverter{}, testLogger())
	report, err := uc.Execute(context.Background(), []string{root}, domain.Config{Target: domain.Avif}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(report.Archives) != 1 || report.Archives[0].Status != domain.ArchiveSkipped {
		t.Fatalf("unexpected report: %+v", report.Archives)
	}
}

func TestConvertDir_DryRun(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "Comics")
	writeTree(t, root, map[string]string{"001.jpg": "jpg-1"})

	conv := &fakeConverter{}
	uc := NewConvertDir(conv, testLogger())
	sink := &recordingSink{}
	_, err := uc.Execute(context.Background(), []string{root}, domain.Config{Target: domain.Avif, DryRun: true}, sink)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(root + "-avif"); err == nil {
		t.Errorf("dry run created the mirror directory")
	}
	if len(conv.calls) != 0 {
		t.Errorf("dry run called the converter")
	}

	found := false
	for _, line := range sink.lines {
		if strings.Contains(line, "would convert 1 image(s)") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing dry run line, got %q", sink.lines)
	}
}

func TestConvertDir_NotADirectory(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file.jpg")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	uc := NewConvertDir(&fakeConverter{}, testLogger())
	report, err := uc.Execute(context.Background(), []string{file}, domain.Config{Target: domain.Avif}, ports.NopSink{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !report.Failed() {
		t.Fatalf("report.Failed() = false, want true: %+v", report.Archives)
	}
}
