package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	tmp := t.TempDir()

	cfg, err := Load(tmp)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Encoders != domain.DefaultEncoderSettings() {
		t.Errorf("expected default encoder settings, got %+v", cfg.Encoders)
	}
	if cfg.Workers != 0 {
		t.Errorf("expected workers=0, got %d", cfg.Workers)
	}
}

func TestLoad_AppliesOverrides(t *testing.T) {
	tmp := t.TempDir()
	content := `
workers: 4
encoders:
  avif:
    quality: 70
    speed: 6
  webp:
    quality: 75
tools:
  magick: /opt/imagemagick/bin/magick
`
	if err := os.WriteFile(filepath.Join(tmp, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmp)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	if cfg.Encoders.AvifQuality != 70 || cfg.Encoders.AvifSpeed != 6 {
		t.Errorf("avif settings = %+v", cfg.Encoders)
	}
	if cfg.Encoders.WebpQuality != 75 {
		t.Errorf("webp quality = %d, want 75", cfg.Encoders.WebpQuality)
	}
	// untouched values keep defaults
	if cfg.Encoders.JxlEffort != 9 || cfg.Encoders.JpegQuality != 92 {
		t.Errorf("defaults disturbed: %+v", cfg.Encoders)
	}
	if cfg.Tools["magick"] != "/opt/imagemagick/bin/magick" {
		t.Errorf("tool override = %q", cfg.Tools["magick"])
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, FileName), []byte("workers: [not an int"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmp)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Errorf("expected invalid_config kind, got %v", err)
	}
}

func TestLoad_IgnoresNonPositiveWorkers(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, FileName), []byte("workers: -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmp)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 0 {
		t.Errorf("workers = %d, want 0", cfg.Workers)
	}
}
